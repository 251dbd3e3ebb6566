package listinput

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/conneroisu/chassis/internal/binding"
	"github.com/conneroisu/chassis/internal/datalist"
	"github.com/conneroisu/chassis/internal/dom"
	"github.com/conneroisu/chassis/internal/errors"
	"github.com/conneroisu/chassis/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	doc     *dom.Document
	store   *binding.Store
	lists   *datalist.Installer
	inputs  *Installer
	element *dom.Node
}

func newFixture(t *testing.T, attrs map[string]string) *fixture {
	t.Helper()
	doc := dom.NewDocument()
	element := doc.CreateElement("input")
	for k, v := range attrs {
		element.SetAttribute(k, v)
	}
	require.NoError(t, doc.Body().AppendChild(element))

	store := binding.NewStore()
	emitter := events.NewEmitter(nil)
	lists := datalist.NewInstaller(store, emitter, datalist.DefaultOptions(), nil)
	return &fixture{
		doc:     doc,
		store:   store,
		lists:   lists,
		inputs:  NewInstaller(store, lists, emitter, time.Hour, nil),
		element: element,
	}
}

type recorded struct {
	name   string
	detail any
}

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

func TestAttributes(t *testing.T) {
	f := newFixture(t, map[string]string{"separator": ";", "deduplicate": "true", "deduplicateInput": "true"})
	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)

	assert.Equal(t, ";", in.Separator())
	assert.True(t, in.Deduplicate())
	assert.True(t, in.DeduplicateInput())
	assert.Equal(t, []string{"testA", "testB", "testC"}, in.SplitInput("testA;testB;testC;testC"))
}

func TestSubmitOnEnter(t *testing.T) {
	f := newFixture(t, map[string]string{"separator": ";"})
	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)
	got := record(f.element)

	f.element.SetValue("testA;testB;testC")
	assert.Equal(t, StatePending, in.State())
	assert.True(t, in.Pending())

	f.element.DispatchEvent(dom.NewKeyboardEvent("keyup", "KeyA"))
	assert.Empty(t, *got, "other keys do not submit")

	f.element.DispatchEvent(dom.NewKeyboardEvent("keyup", "Enter"))

	assert.Equal(t, StateIdle, in.State())
	assert.Equal(t, "", f.element.Value())
	assert.Equal(t, []string{"testA", "testB", "testC"}, in.Data())
	require.Len(t, *got, 2)
	assert.Equal(t, recorded{events.NameCreate, events.DataDetail[string]{Data: []string{"testA", "testB", "testC"}}}, (*got)[0])
	assert.Equal(t, events.NameUpdate, (*got)[1].name)

	// The list operations keep working alongside submit.
	require.NoError(t, in.Append("test4"))
	assert.Equal(t, "test4", in.Data()[3])
	require.NoError(t, in.Remove(0))
	assert.Equal(t, "testB", in.Data()[0])
	require.NoError(t, in.SetItem(0, "x"))
	in.Clear()
	assert.Empty(t, in.Data())
}

func TestSubmitWithoutValues(t *testing.T) {
	f := newFixture(t, nil)
	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)
	got := record(f.element)

	f.element.SetValue(" , ,, ")
	require.NoError(t, in.Submit())

	assert.Equal(t, "", f.element.Value())
	assert.Equal(t, StateIdle, in.State())
	assert.Empty(t, *got)
	assert.Empty(t, in.Data())
}

func TestSubmitAppendsOnlyNewValues(t *testing.T) {
	f := newFixture(t, nil)
	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)
	require.NoError(t, in.Add("a"))
	got := record(f.element)

	f.element.SetValue("a,b")
	require.NoError(t, in.Submit())

	assert.Equal(t, []string{"a", "b"}, in.Data())
	assert.Equal(t, events.DataDetail[string]{Data: []string{"b"}}, (*got)[0].detail)
}

func TestAddDoesNotChangeState(t *testing.T) {
	f := newFixture(t, nil)
	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)

	f.element.SetValue("typing")
	require.NoError(t, in.Add("x"))
	assert.Equal(t, StatePending, in.State())
	assert.Equal(t, "pending", in.State().String())
	assert.Equal(t, "idle", StateIdle.String())
}

func TestBrowse(t *testing.T) {
	f := newFixture(t, map[string]string{"type": "file"})
	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)

	clicks := 0
	f.element.AddEventListener("click", func(*dom.Event) { clicks++ })
	in.Browse()
	assert.Equal(t, 1, clicks)

	f.element.SetAttribute("type", "text")
	in.Browse()
	assert.Equal(t, 1, clicks)
	assert.Same(t, f.element, in.InputField())
}

func TestUnresolvedFor(t *testing.T) {
	f := newFixture(t, map[string]string{"for": "missing"})

	_, err := f.inputs.Attach(context.Background(), f.element)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnresolvedReference)
	assert.Contains(t, err.Error(), "missing")

	_, ok := f.store.Lookup(f.element)
	assert.False(t, ok, "nothing is installed when for cannot be resolved")
}

func TestForEmitsDOMChange(t *testing.T) {
	f := newFixture(t, map[string]string{"for": "tags"})
	list := f.doc.CreateElement("ul")
	list.SetAttribute("id", "tags")
	require.NoError(t, f.doc.Body().AppendChild(list))

	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)
	assert.Same(t, list, in.Target())
	got := record(f.element)

	item := f.doc.CreateElement("li")
	require.NoError(t, list.AppendChild(item))
	list.SetAttribute("class", "ignored")
	assert.Empty(t, *got, "delivery waits for the batch window")

	in.FlushMutations()

	require.Len(t, *got, 1)
	assert.Equal(t, events.NameDOMChange, (*got)[0].name)
	rec, ok := (*got)[0].detail.(dom.MutationRecord)
	require.True(t, ok)
	assert.Equal(t, dom.MutationChildList, rec.Type)
	assert.Equal(t, []*dom.Node{item}, rec.AddedNodes)
}

func TestFlushMutationsFromDOMChangeListener(t *testing.T) {
	f := newFixture(t, map[string]string{"for": "tags"})
	list := f.doc.CreateElement("ul")
	list.SetAttribute("id", "tags")
	require.NoError(t, f.doc.Body().AppendChild(list))

	in, err := f.inputs.Attach(context.Background(), f.element)
	require.NoError(t, err)

	var added []*dom.Node
	f.element.AddEventListener(events.NameDOMChange, func(ev *dom.Event) {
		detail, _ := ev.Detail()
		rec := detail.(dom.MutationRecord)
		added = append(added, rec.AddedNodes...)
		if len(added) == 1 {
			require.NoError(t, list.AppendChild(f.doc.CreateElement("li")))
			in.FlushMutations()
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		require.NoError(t, list.AppendChild(f.doc.CreateElement("li")))
		in.FlushMutations()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("FlushMutations did not return when called from a domchange listener")
	}
	assert.Len(t, added, 2, "the change made by the listener is delivered in the same flush")
}

func TestReinstallKeepsPattern(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	in, err := f.inputs.Attach(ctx, f.element)
	require.NoError(t, err)
	opts := in.List().Options()
	opts.Pattern = regexp.MustCompile(`[;\s]+`)
	in.List().SetOptions(opts)

	again, err := f.inputs.Attach(ctx, f.element)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, again.SplitInput("a;b c"))
}

func TestReinstallIsIdempotent(t *testing.T) {
	f := newFixture(t, map[string]string{"for": "tags"})
	list := f.doc.CreateElement("ul")
	list.SetAttribute("id", "tags")
	require.NoError(t, f.doc.Body().AppendChild(list))
	ctx := context.Background()

	first, err := f.inputs.Attach(ctx, f.element)
	require.NoError(t, err)
	require.NoError(t, first.Add("kept"))

	f.element.SetAttribute("separator", ";")
	second, err := f.inputs.Attach(ctx, f.element)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"kept"}, second.Data())
	assert.Equal(t, ";", second.Separator())
	assert.Equal(t, 1, f.element.ListenerCount("keyup"))

	got := record(f.element)
	require.NoError(t, list.AppendChild(f.doc.CreateElement("li")))
	second.FlushMutations()
	assert.Len(t, *got, 1, "one watcher after two installs")
}

func TestSharesStateWithDataList(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.lists.Install(ctx, f.element))
	host, _ := f.store.Lookup(f.element)
	data, ok := binding.DataList(host)
	require.True(t, ok)
	require.NoError(t, data.Add("from-datalist"))

	require.NoError(t, f.inputs.Install(ctx, f.element))
	capability, ok := binding.ListInput(host)
	require.True(t, ok)
	assert.Equal(t, []string{"from-datalist"}, capability.Data())
	assert.Equal(t, []string{"datalist", "listinput"}, host.Mixins())
}

func TestClose(t *testing.T) {
	f := newFixture(t, map[string]string{"for": "tags"})
	list := f.doc.CreateElement("ul")
	list.SetAttribute("id", "tags")
	require.NoError(t, f.doc.Body().AppendChild(list))
	ctx := context.Background()

	in, err := f.inputs.Attach(ctx, f.element)
	require.NoError(t, err)
	got := record(f.element)

	in.Close()
	in.Close()
	assert.Nil(t, in.Target())
	assert.Equal(t, 0, f.element.ListenerCount("keyup"))

	require.NoError(t, list.AppendChild(f.doc.CreateElement("li")))
	in.FlushMutations()
	f.element.SetValue("a")
	f.element.DispatchEvent(dom.NewKeyboardEvent("keyup", "Enter"))
	assert.Empty(t, *got)

	_, err = f.inputs.Attach(ctx, f.element)
	require.NoError(t, err)
	assert.Equal(t, 1, f.element.ListenerCount("keyup"))
	assert.Same(t, list, in.Target())
}
