package listinput

import (
	"regexp"
	"testing"

	"github.com/conneroisu/chassis/internal/datalist"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	semi := datalist.Options{Separator: ";", Deduplicate: true, DeduplicateInput: true}
	keepDup := datalist.Options{Separator: ";", DeduplicateInput: false}

	tests := []struct {
		name string
		raw  string
		opts datalist.Options
		want []string
	}{
		{"trailing duplicate dropped", "testA;testB;testC;testC", semi, []string{"testA", "testB", "testC"}},
		{"duplicates kept", "a;a;b", keepDup, []string{"a", "a", "b"}},
		{"runs collapse", "a;;;b", semi, []string{"a", "b"}},
		{"trimmed", "  a ; b  ;\tc ", semi, []string{"a", "b", "c"}},
		{"blank tokens dropped", " ; ;a; ", semi, []string{"a"}},
		{"empty", "", semi, []string{}},
		{"default separator", "x,y", datalist.Options{}, []string{"x", "y"}},
		{"literal metacharacters", "a.b|c.d", datalist.Options{Separator: "."}, []string{"a", "b|c", "d"}},
		{"dedup after trim", "a ; a", semi, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.raw, tt.opts))
		})
	}
}

func TestSplitPattern(t *testing.T) {
	opts := datalist.Options{Separator: ",", Pattern: regexp.MustCompile(`[,;\s]+`), DeduplicateInput: true}
	assert.Equal(t, []string{"a", "b", "c"}, Split("a, b;c  a", opts))
}
