package scenario

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/conneroisu/chassis/internal/config"
	"github.com/conneroisu/chassis/internal/errors"
)

func runYAML(t *testing.T, cfg *config.Config, input string) (*Result, error) {
	t.Helper()
	s, err := Parse([]byte(input))
	require.NoError(t, err)
	return NewRunner(cfg, nil).Run(context.Background(), s)
}

func eventsOf(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Event)
	}
	return names
}

func TestRunDeduplicatingList(t *testing.T) {
	result, err := runYAML(t, nil, `
name: dedup
document:
  - tag: datalist
    id: tags
    attrs:
      deduplicate: "true"
steps:
  - action: apply
    mixin: datalist
    target: "#tags"
  - action: add
    target: "#tags"
    values: [testA, testB, testC]
  - action: index
    target: "#tags"
    value: testB
    want: 1
  - action: remove
    target: "#tags"
    indexes: [0]
  - action: set
    target: "#tags"
    index: 0
    value: testX
  - action: expect
    target: "#tags"
    expect:
      data: [testX, testC]
      mixins: [datalist]
      events: [create, update, delete, update, modify, update]
`)
	require.NoError(t, err)
	assert.Equal(t, 6, result.Steps)
	assert.Zero(t, result.Failed)

	assert.Equal(t,
		[]string{"create", "update", EventResult, "delete", "update", "modify", "update"},
		eventsOf(result.Transcript))
	assert.Equal(t, "datalist#tags", result.Transcript[0].Target)
	assert.Equal(t, 2, result.Transcript[0].Step)
	assert.Equal(t, 1, result.Transcript[2].Detail)
}

func TestRunSplitAndSubmit(t *testing.T) {
	result, err := runYAML(t, nil, `
document:
  - tag: input
    id: tags
    attrs:
      separator: ";"
      deduplicateInput: "true"
steps:
  - action: apply
    mixin: listinput
    target: "#tags"
  - action: type
    target: "#tags"
    value: "testA;testB;testC;testC"
  - action: expect
    target: "#tags"
    expect:
      state: pending
  - action: key
    target: "#tags"
    key: Enter
  - action: expect
    target: "#tags"
    expect:
      data: [testA, testB, testC]
      value: ""
      state: idle
      mixins: [datalist, listinput]
      events: [create, update]
`)
	require.NoError(t, err)
	assert.Zero(t, result.Failed)
}

func TestRunIgnoresOtherKeys(t *testing.T) {
	_, err := runYAML(t, nil, `
document:
  - tag: input
    id: tags
steps:
  - action: apply
    mixin: listinput
    target: "#tags"
  - action: type
    target: "#tags"
    value: "a,b"
  - action: key
    target: "#tags"
    key: Space
  - action: expect
    target: "#tags"
    expect:
      empty: true
      value: "a,b"
      events: []
`)
	require.NoError(t, err)
}

func TestRunWatchesForTarget(t *testing.T) {
	result, err := runYAML(t, nil, `
document:
  - tag: ul
    id: chips
  - tag: input
    id: tags
    attrs:
      for: chips
steps:
  - action: apply
    mixin: listinput
    target: "#tags"
  - action: append-child
    target: "#chips"
    element:
      tag: li
      classes: [chip]
  - action: flush
  - action: expect
    target: "#tags"
    expect:
      events: [domchange]
`)
	require.NoError(t, err)

	require.NotEmpty(t, result.Transcript)
	last := result.Transcript[len(result.Transcript)-1]
	assert.Equal(t, "domchange", last.Event)
	assert.Equal(t, "input#tags", last.Target)
	detail, ok := last.Detail.(MutationDetail)
	require.True(t, ok)
	assert.Equal(t, "ul#chips", detail.Target)
	assert.Equal(t, []string{"li.chip"}, detail.Added)
}

func TestRunExpectedErrors(t *testing.T) {
	_, err := runYAML(t, nil, `
document:
  - tag: datalist
    id: tags
  - tag: input
    id: broken
    attrs:
      for: nowhere
steps:
  - action: apply
    mixin: datalist
    target: "#tags"
  - action: set
    target: "#tags"
    index: 3
    value: x
    expect_error: ERR_INDEX_OUT_OF_RANGE
  - action: add
    target: "#tags"
    expect_error: ERR_MISSING_ARGUMENT
  - action: apply
    mixin: listinput
    target: "#broken"
    expect_error: ERR_UNRESOLVED_REFERENCE
  - action: apply
    mixin: carousel
    target: "#tags"
    expect_error: ERR_UNKNOWN_MIXIN
  - action: expect
    target: "#broken"
    expect:
      mixins: []
`)
	require.NoError(t, err)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	result, err := runYAML(t, nil, `
document:
  - tag: datalist
    id: tags
steps:
  - action: apply
    mixin: datalist
    target: "#tags"
  - action: set
    target: "#tags"
    index: 0
    value: x
  - action: add
    target: "#tags"
    values: [a]
`)
	require.Error(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.Transcript)

	var ce *errors.ChassisError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, errors.ErrCodeScenario, ce.Code)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
}

func TestRunKeepGoing(t *testing.T) {
	cfg := config.Default()
	cfg.Scenario.KeepGoing = true

	result, err := runYAML(t, cfg, `
document:
  - tag: datalist
    id: tags
steps:
  - action: set
    target: "#tags"
    index: 0
    value: x
  - action: apply
    mixin: datalist
    target: "#tags"
  - action: index
    target: "#tags"
    value: a
    want: 0
  - action: add
    target: "#tags"
    values: [a]
`)
	require.Error(t, err)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, []string{EventResult, "create", "update"}, eventsOf(result.Transcript))
}

func TestRunCanceled(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - action: flush\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := NewRunner(nil, nil).Run(ctx, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Transcript)
}

func TestRunsAreIsolated(t *testing.T) {
	input := `
document:
  - tag: datalist
    id: tags
steps:
  - action: apply
    mixin: datalist
    target: "#tags"
  - action: add
    target: "#tags"
    values: [a]
  - action: expect
    target: "#tags"
    expect:
      data: [a]
`
	s, err := Parse([]byte(input))
	require.NoError(t, err)
	runner := NewRunner(nil, nil)
	for i := 0; i < 2; i++ {
		_, err := runner.Run(context.Background(), s)
		require.NoError(t, err)
	}
}
