package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inkgraph/pkg/graph"
	"github.com/matzehuels/inkgraph/pkg/stream"
)

// streamCommand creates the stream command for following generator output.
func (c *CLI) streamCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stream [file]",
		Short: "Follow a generator stream and show nodes as they complete",
		Long: `Follow a generator stream and show nodes as they complete.

The stream command tails a file that an external generator is writing
(the full JSON document so far) and parses it incrementally: nodes and
edges appear in the view as soon as their objects are syntactically
complete, long before the document closes.

When the document finishes, the accumulated graph can be written out
with --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStream(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final graph JSON here")

	return cmd
}

func (c *CLI) runStream(path, output string) error {
	model := newStreamModel(path)
	prog := tea.NewProgram(model)

	final, err := prog.Run()
	if err != nil {
		return fmt.Errorf("stream view: %w", err)
	}

	m, ok := final.(streamModel)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}

	printSuccess("Stream finished")
	printStats(len(m.graph.Nodes), len(m.graph.Edges), false)

	if output != "" {
		if err := graph.WriteFile(output, m.graph.Normalize()); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}
	return nil
}

// pollInterval is how often the stream view re-reads the tailed file.
const pollInterval = 200 * time.Millisecond

type streamTickMsg time.Time

// streamModel is the bubbletea model for the live stream view.
type streamModel struct {
	path   string
	parser *stream.Parser
	graph  graph.Graph
	recent []string
	phase  stream.Phase
	err    error
	done   bool
}

func newStreamModel(path string) streamModel {
	return streamModel{
		path:   path,
		parser: stream.NewParser(),
	}
}

func streamTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return streamTickMsg(t)
	})
}

func (m streamModel) Init() tea.Cmd {
	return streamTick()
}

func (m streamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case streamTickMsg:
		data, err := os.ReadFile(m.path)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}

		res := m.parser.Feed(string(data))
		m.phase = res.Phase
		m.graph.Nodes = append(m.graph.Nodes, res.Nodes...)
		m.graph.Edges = append(m.graph.Edges, res.Edges...)
		for _, n := range res.Nodes {
			m.recent = append(m.recent, n.Label())
		}
		if len(m.recent) > 5 {
			m.recent = m.recent[len(m.recent)-5:]
		}

		if res.Phase == stream.PhaseDone {
			m.done = true
			return m, tea.Quit
		}
		return m, streamTick()
	}
	return m, nil
}

func (m streamModel) View() string {
	if m.done || m.err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Streaming "+m.path) + "\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render("phase"), StyleValue.Render(m.phase.String())))
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render("nodes"), StyleNumber.Render(fmt.Sprintf("%d", len(m.graph.Nodes)))))
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render("edges"), StyleNumber.Render(fmt.Sprintf("%d", len(m.graph.Edges)))))

	if len(m.recent) > 0 {
		b.WriteString("\n" + StyleDim.Render("  recent:") + "\n")
		for _, label := range m.recent {
			b.WriteString("    " + StyleValue.Render(label) + "\n")
		}
	}

	b.WriteString("\n" + StyleDim.Render("  q to quit") + "\n")
	return b.String()
}
