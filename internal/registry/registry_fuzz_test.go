package registry

import (
	"context"
	"testing"

	"github.com/conneroisu/chassis/internal/dom"
)

// FuzzApplySelector checks that arbitrary selector text never panics and
// every target is either applied or skipped.
func FuzzApplySelector(f *testing.F) {
	f.Add("#tags")
	f.Add("input.chassis-listinput")
	f.Add("ul > li, [for=tags]")
	f.Add("[unterminated")
	f.Add("")
	f.Add("\x00\x01")

	f.Fuzz(func(t *testing.T, selector string) {
		if len(selector) > 10000 {
			t.Skip("selector too large")
		}

		doc := dom.NewDocument()
		input := doc.CreateElement("input")
		input.SetAttribute("id", "tags")
		_ = doc.Body().AppendChild(input)

		registry := NewRegistry(doc, nil)
		registry.Register(&MixinInfo{Name: "datalist", Install: func(context.Context, *dom.Node) error { return nil }})

		report, err := registry.Apply(context.Background(), "datalist", selector)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Applied) > 0 && report.Skipped.HasErrors() {
			t.Errorf("selector %q both applied and skipped", selector)
		}
	})
}
