// Package testing provides test utilities, builders, and fixtures for unit
// and integration tests.
//
// This package centralizes common testing patterns to avoid duplication
// across test files:
//   - ConfigBuilder: Fluent builder for creating test configurations
//   - ClusterFixture: In-memory secret-store cluster with real seal semantics
//   - MockAdminClient: Shared mock for the administrative API
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithRelease("vault").
//	    WithReplicas(3).
//	    Build()
//
//	fixture := testing.NewClusterFixture(3, 5, 3)
package testing
