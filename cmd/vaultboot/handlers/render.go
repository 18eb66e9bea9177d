package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/tosin2013/vault-raft-bootstrap/internal/bootstrap"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// styled applies a style only on interactive terminals; CI logs get plain
// text.
func styled(s lipgloss.Style, text string) string {
	if !isInteractiveTTY() {
		return text
	}
	return s.Render(text)
}

// printJSON outputs any value as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printResultJSON outputs a bootstrap result as JSON with a readable
// duration.
func printResultJSON(result *bootstrap.BootstrapResult) error {
	// time.Duration marshals as nanoseconds; wrap for a readable field.
	out := struct {
		*bootstrap.BootstrapResult
		Duration string `json:"duration"`
	}{
		BootstrapResult: result,
		Duration:        result.Duration.Round(time.Millisecond).String(),
	}
	return printJSON(out)
}

// printResult renders a bootstrap result summary.
func printResult(result *bootstrap.BootstrapResult) {
	fmt.Println()
	fmt.Println(styled(titleStyle, "  vaultboot bootstrap"))
	fmt.Println(styled(dimStyle, "  "+strings.Repeat("─", 40)))

	if result.Succeeded {
		fmt.Println("  " + styled(okStyle, "✓ succeeded"))
	} else {
		fmt.Println("  " + styled(failStyle, "✗ failed: "+result.FailureReason))
		if result.FailureDetail != "" {
			fmt.Println(styled(dimStyle, "    "+result.FailureDetail))
		}
	}

	if result.InitializedNow {
		fmt.Println("    initialized: this run")
	}
	if len(result.UnsealedNodes) > 0 {
		fmt.Printf("    unsealed:    %s\n", strings.Join(result.UnsealedNodes, ", "))
	}
	if result.Endpoint != "" {
		fmt.Printf("    endpoint:    %s\n", result.Endpoint)
	}
	fmt.Printf("    duration:    %v\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("    run id:      %s\n", result.RunID)
	fmt.Println()
}

// printClusterState renders per-node seal state.
func printClusterState(state *ClusterState) {
	fmt.Println()
	fmt.Println(styled(titleStyle, fmt.Sprintf("  vaultboot status: %s", state.Release)))
	fmt.Println(styled(dimStyle, "  "+strings.Repeat("─", 40)))

	for _, node := range state.Nodes {
		fmt.Printf("  %s %s %s\n", nodeIndicator(node), node.Node, nodeSummary(node))
	}
	fmt.Println()
}

func nodeIndicator(node NodeState) string {
	switch {
	case !node.Reachable:
		return styled(failStyle, "✗")
	case node.Initialized && !node.Sealed:
		return styled(okStyle, "✓")
	default:
		return styled(dimStyle, "○")
	}
}

func nodeSummary(node NodeState) string {
	if !node.Reachable {
		return styled(dimStyle, "unreachable: "+node.Error)
	}

	var parts []string
	if !node.Initialized {
		parts = append(parts, "uninitialized")
	}
	if node.Sealed {
		if node.Progress > 0 {
			parts = append(parts, fmt.Sprintf("sealed (%d/%d)", node.Progress, node.Threshold))
		} else {
			parts = append(parts, "sealed")
		}
	} else if node.Standby {
		parts = append(parts, "standby")
	} else if node.Initialized {
		parts = append(parts, "active")
	}
	return styled(dimStyle, strings.Join(parts, ", "))
}

// printVerifyResult renders a verification outcome.
func printVerifyResult(result *VerifyResult) {
	fmt.Println()
	fmt.Println(styled(sectionStyle, "  vaultboot verify"))
	fmt.Println(styled(dimStyle, "  "+strings.Repeat("─", 40)))

	if result.Healthy {
		fmt.Println("  " + styled(okStyle, "✓ cluster healthy"))
		if result.Endpoint != "" {
			fmt.Printf("    endpoint: %s\n", result.Endpoint)
		}
	} else {
		fmt.Println("  " + styled(failStyle, "✗ cluster degraded"))
		fmt.Println(styled(dimStyle, "    "+result.Detail))
	}
	fmt.Println()
}
