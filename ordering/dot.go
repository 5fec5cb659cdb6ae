package ordering

import (
	"fmt"
	"io"

	"github.com/awalterschulze/gographviz"
)

func forkNode(i int) string { return fmt.Sprintf("fork%d", i) }

// Dot renders the fork order graph. Edges on a cycle are red, edges of
// philosophers taking their right fork first are dashed.
func (g *Graph) Dot() (*gographviz.Escape, error) {
	graph := gographviz.NewEscape()
	if err := graph.SetDir(true); err != nil {
		return nil, err
	}
	if err := graph.SetName("G"); err != nil {
		return nil, err
	}
	graph.AddAttr("G", "label", g.Order.String())

	for i := 0; i < g.Forks; i++ {
		err := graph.AddNode("G", forkNode(i), map[string]string{
			"label": fmt.Sprintf("fork %d", i),
			"shape": "circle",
		})
		if err != nil {
			return nil, err
		}
	}
	onCycle := make(map[string]bool)
	for _, e := range g.Cycle() {
		onCycle[e.Philosopher] = true
	}
	for _, e := range g.Edges {
		attrs := map[string]string{"label": e.Philosopher}
		if e.Deviates {
			attrs["style"] = "dashed"
		}
		if onCycle[e.Philosopher] {
			attrs["color"] = "red"
		}
		if err := graph.AddEdge(forkNode(e.From), forkNode(e.To), true, attrs); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

// WriteDot writes the fork order graph in DOT format.
func (g *Graph) WriteDot(w io.Writer) error {
	graph, err := g.Dot()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.String())
	return err
}
