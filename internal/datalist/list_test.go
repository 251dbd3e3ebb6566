package datalist

import (
	"context"
	"regexp"
	"testing"

	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/errors"
	"github.com/conneroisu/chassis/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	name   string
	detail any
}

// record captures every list event dispatched on node.
func record(node *dom.Node) *[]recorded {
	var got []recorded
	for _, name := range events.Names {
		node.AddEventListener(name, func(ev *dom.Event) {
			detail, _ := ev.Detail()
			got = append(got, recorded{name: ev.Type, detail: detail})
		})
	}
	return &got
}

func newList(t *testing.T, opts Options) (*List[string], *[]recorded) {
	t.Helper()
	node := dom.NewDocument().CreateElement("input")
	return New[string](node, opts, nil), record(node)
}

func TestAddEmitsCreateThenUpdate(t *testing.T) {
	list, got := newList(t, DefaultOptions())

	require.NoError(t, list.Add("testA", "testB", "testC"))

	abc := []string{"testA", "testB", "testC"}
	require.Len(t, *got, 2)
	assert.Equal(t, recorded{events.NameCreate, events.DataDetail[string]{Data: abc}}, (*got)[0])
	assert.Equal(t, recorded{events.NameUpdate, events.UpdateDetail[string]{
		Created:  abc,
		Deleted:  []string{},
		Modified: []events.Modification[string]{},
	}}, (*got)[1])
	assert.Equal(t, 1, list.IndexOf("testB"))
}

func TestAddDeduplicatesStorage(t *testing.T) {
	list, got := newList(t, DefaultOptions())

	require.NoError(t, list.Add("v1", "v2", "v2"))
	assert.Equal(t, []string{"v1", "v2"}, list.Data())

	require.NoError(t, list.Add("v2", "v3"))
	assert.Equal(t, []string{"v1", "v2", "v3"}, list.Data())

	create := (*got)[2]
	assert.Equal(t, events.DataDetail[string]{Data: []string{"v3"}}, create.detail)
}

func TestAddKeepsDuplicatesWhenDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Deduplicate = false
	list, _ := newList(t, opts)

	require.NoError(t, list.Add("v1", "v2", "v2"))
	require.NoError(t, list.Append("v1"))
	assert.Equal(t, []string{"v1", "v2", "v2", "v1"}, list.Data())
}

func TestAddWithoutArguments(t *testing.T) {
	list, got := newList(t, DefaultOptions())

	err := list.Add()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingArgument)
	assert.Empty(t, *got)
}

func TestRemoveByPosition(t *testing.T) {
	list, got := newList(t, DefaultOptions())
	require.NoError(t, list.Add("testA", "testB", "testC"))
	*got = nil

	require.NoError(t, list.Remove(0))

	assert.Equal(t, "testB", list.Data()[0])
	require.Len(t, *got, 2)
	assert.Equal(t, recorded{events.NameDelete, events.DataDetail[string]{Data: []string{"testA"}}}, (*got)[0])
	assert.Equal(t, events.NameUpdate, (*got)[1].name)
}

func TestRemoveUsesOriginalPositions(t *testing.T) {
	list, got := newList(t, DefaultOptions())
	require.NoError(t, list.Add("a", "b", "c", "d"))
	*got = nil

	require.NoError(t, list.Remove(3, 0, 1, 9, -5))

	assert.Equal(t, []string{"c"}, list.Data())
	assert.Equal(t, events.DataDetail[string]{Data: []string{"a", "b", "d"}}, (*got)[0].detail)
	assert.Equal(t, events.UpdateDetail[string]{
		Created:  []string{},
		Deleted:  []string{"a", "b", "d"},
		Modified: []events.Modification[string]{},
	}, (*got)[1].detail)
}

func TestClearEquivalents(t *testing.T) {
	clearers := map[string]func(l *List[string]){
		"clear":     func(l *List[string]) { l.Clear() },
		"remove -1": func(l *List[string]) { require.NoError(t, l.Remove(-1)) },
		"remove":    func(l *List[string]) { require.NoError(t, l.Remove()) },
	}

	for name, clear := range clearers {
		t.Run(name, func(t *testing.T) {
			list, got := newList(t, DefaultOptions())
			require.NoError(t, list.Add("x", "y"))
			*got = nil

			clear(list)

			assert.Empty(t, list.Data())
			require.Len(t, *got, 2)
			assert.Equal(t, recorded{events.NameRemove, events.DataDetail[string]{Data: []string{"x", "y"}}}, (*got)[0])
			assert.Equal(t, recorded{events.NameUpdate, events.UpdateDetail[string]{
				Created:  []string{},
				Deleted:  []string{"x", "y"},
				Modified: []events.Modification[string]{},
			}}, (*got)[1])
		})
	}
}

func TestSetItem(t *testing.T) {
	list, got := newList(t, DefaultOptions())
	require.NoError(t, list.Add("testB", "testC"))
	*got = nil

	require.NoError(t, list.SetItem(0, "testX"))

	assert.Equal(t, "testX", list.Data()[0])
	assert.Equal(t, 0, list.IndexOf("testX"))
	require.Len(t, *got, 2)
	assert.Equal(t, recorded{events.NameModify, events.ModifyDetail[string]{Index: 0, Old: "testB", New: "testX"}}, (*got)[0])
	assert.Equal(t, recorded{events.NameUpdate, events.UpdateDetail[string]{
		Created:  []string{},
		Deleted:  []string{},
		Modified: []events.Modification[string]{{Old: "testB", New: "testX", Index: 0}},
	}}, (*got)[1])
}

func TestSetItemOutOfRange(t *testing.T) {
	list, got := newList(t, DefaultOptions())
	require.NoError(t, list.Add("a", "b"))
	*got = nil

	for _, index := range []int{-1, 2} {
		err := list.SetItem(index, "z")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
		assert.Contains(t, err.Error(), "current max value: 1")
	}

	assert.Equal(t, []string{"a", "b"}, list.Data())
	assert.Empty(t, *got)

	empty, _ := newList(t, DefaultOptions())
	err := empty.SetItem(0, "z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current max value: 0")
}

func TestSetItemToExistingValueKeepsFirst(t *testing.T) {
	list, got := newList(t, DefaultOptions())
	require.NoError(t, list.Add("a", "b", "c"))
	*got = nil

	require.NoError(t, list.SetItem(0, "c"))

	assert.Equal(t, []string{"c", "b"}, list.Data())
	update := (*got)[1].detail.(events.UpdateDetail[string])
	assert.Equal(t, []string{"c"}, update.Deleted)
}

func TestCompactAfterEnablingDeduplication(t *testing.T) {
	opts := DefaultOptions()
	opts.Deduplicate = false
	list, got := newList(t, opts)
	require.NoError(t, list.Add("a", "a"))

	opts.Deduplicate = true
	list.SetOptions(opts)
	assert.Equal(t, []string{"a", "a"}, list.Data(), "options alone do not mutate")

	*got = nil
	require.NoError(t, list.Add("b"))
	assert.Equal(t, []string{"a", "b"}, list.Data())
	assert.Equal(t, []string{"a"}, (*got)[1].detail.(events.UpdateDetail[string]).Deleted)
}

func TestListenerMayMutate(t *testing.T) {
	node := dom.NewDocument().CreateElement("input")
	list := New[string](node, DefaultOptions(), nil)

	node.AddEventListenerOnce(events.NameCreate, func(*dom.Event) {
		_ = list.Add("from-listener")
	})

	require.NoError(t, list.Add("first"))
	assert.Equal(t, []string{"first", "from-listener"}, list.Data())
}

func TestDataIsACopy(t *testing.T) {
	list, _ := newList(t, DefaultOptions())
	require.NoError(t, list.Add("a"))

	data := list.Data()
	data[0] = "mutated"
	assert.Equal(t, []string{"a"}, list.Data())
	assert.Equal(t, 1, list.Len())
}

func TestGenericValues(t *testing.T) {
	node := dom.NewDocument().CreateElement("ul")
	list := New[int](node, DefaultOptions(), nil)

	require.NoError(t, list.Add(3, 1, 3, 2))
	assert.Equal(t, []int{3, 1, 2}, list.Data())
	assert.Equal(t, 2, list.IndexOf(2))
}

func TestOptionsFromAttributes(t *testing.T) {
	doc := dom.NewDocument()

	tests := []struct {
		name  string
		attrs map[string]string
		want  Options
	}{
		{
			name: "defaults",
			want: Options{Separator: ",", Deduplicate: true, DeduplicateInput: true},
		},
		{
			name:  "separator",
			attrs: map[string]string{"separator": ";"},
			want:  Options{Separator: ";", Deduplicate: true, DeduplicateInput: true},
		},
		{
			name:  "deduplicate off carries to input",
			attrs: map[string]string{"deduplicate": "false"},
			want:  Options{Separator: ",", Deduplicate: false, DeduplicateInput: false},
		},
		{
			name:  "input overrides",
			attrs: map[string]string{"deduplicate": "false", "deduplicateInput": "true"},
			want:  Options{Separator: ",", Deduplicate: false, DeduplicateInput: true},
		},
		{
			name:  "non true value is off",
			attrs: map[string]string{"deduplicate": "yes"},
			want:  Options{Separator: ",", Deduplicate: false, DeduplicateInput: false},
		},
		{
			name:  "empty separator falls back",
			attrs: map[string]string{"separator": ""},
			want:  Options{Separator: ",", Deduplicate: true, DeduplicateInput: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := doc.CreateElement("input")
			for k, v := range tt.attrs {
				node.SetAttribute(k, v)
			}
			assert.Equal(t, tt.want, OptionsFromAttributes(node, DefaultOptions()))
		})
	}
}

func TestOptionsDefaultsAreOverridable(t *testing.T) {
	defaults := Options{Separator: "|", Deduplicate: false, DeduplicateInput: false}
	node := dom.NewDocument().CreateElement("input")

	assert.Equal(t, defaults, OptionsFromAttributes(node, defaults))

	node.SetAttribute("separator", ";")
	assert.Equal(t, ";", OptionsFromAttributes(node, defaults).Separator)
	assert.Equal(t, ",", OptionsFromAttributes(nil, Options{}).Separator)
}

func TestInstallerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := binding.NewStore()
	in := NewInstaller(store, nil, DefaultOptions(), nil)

	node := dom.NewDocument().CreateElement("input")
	first, err := in.Attach(ctx, node)
	require.NoError(t, err)
	require.NoError(t, first.Add("kept"))

	node.SetAttribute("separator", ";")
	require.NoError(t, in.Install(ctx, node))

	host, ok := store.Lookup(node)
	require.True(t, ok)
	capability, ok := binding.DataList(host)
	require.True(t, ok)

	assert.Same(t, first, capability)
	assert.Equal(t, []string{"kept"}, capability.Data())
	assert.Equal(t, ";", capability.Separator())
}

func TestInstallerKeepsPatternOnReapply(t *testing.T) {
	ctx := context.Background()
	in := NewInstaller(binding.NewStore(), nil, DefaultOptions(), nil)
	node := dom.NewDocument().CreateElement("input")

	b, err := in.Attach(ctx, node)
	require.NoError(t, err)
	opts := b.List().Options()
	opts.Pattern = regexp.MustCompile(`[;\s]+`)
	b.List().SetOptions(opts)

	_, err = in.Attach(ctx, node)
	require.NoError(t, err)
	require.NotNil(t, b.List().Options().Pattern)
	assert.Equal(t, `[;\s]+`, b.List().Options().Pattern.String())

	node.SetAttribute("separator", "|")
	_, err = in.Attach(ctx, node)
	require.NoError(t, err)
	assert.Nil(t, b.List().Options().Pattern, "a separator attribute replaces the pattern")
	assert.Equal(t, "|", b.Separator())
}

func TestInstallerRejectsNil(t *testing.T) {
	in := NewInstaller(binding.NewStore(), nil, DefaultOptions(), nil)
	err := in.Install(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidTarget)
}
