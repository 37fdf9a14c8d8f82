package todo

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/model"
)

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func titles(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func ids(items []model.Item) map[int]bool {
	out := make(map[int]bool, len(items))
	for _, it := range items {
		out[it.Identifier] = true
	}
	return out
}

func TestAddAssignsIncreasingIdentifiers(t *testing.T) {
	s := New()
	prev := 0
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		it := s.Add(title)
		require.Greater(t, it.Identifier, prev)
		assert.False(t, it.Complete, "new item should be incomplete")
		assert.False(t, it.ModifiedDate.IsZero(), "new item should have modifiedDate")
		prev = it.Identifier
	}
	assert.Equal(t, prev+1, s.NextIdentifier())
}

func TestIdentifiersNotReusedAfterRemove(t *testing.T) {
	s := New()
	s.Add("a")
	b := s.Add("b")
	_, err := s.Remove(b.Identifier)
	require.NoError(t, err)

	c := s.Add("c")
	assert.NotEqual(t, b.Identifier, c.Identifier)
}

func TestToggleTwice(t *testing.T) {
	s := New(WithClock(stepClock()))
	it := s.Add("Buy milk")

	first, err := s.ToggleComplete(it.Identifier)
	require.NoError(t, err)
	assert.True(t, first.Complete)

	second, err := s.ToggleComplete(it.Identifier)
	require.NoError(t, err)
	assert.Equal(t, it.Complete, second.Complete)
	assert.False(t, second.ModifiedDate.Before(first.ModifiedDate), "modifiedDate went backwards")
}

func TestToggleNeverMovesDateBackwards(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(-time.Hour)}
	calls := 0
	s := New(WithClock(func() time.Time {
		tm := times[calls]
		calls++
		return tm
	}))

	it := s.Add("x")
	toggled, err := s.ToggleComplete(it.Identifier)
	require.NoError(t, err)
	assert.True(t, toggled.ModifiedDate.Equal(base), "modifiedDate = %v, want clamped to %v", toggled.ModifiedDate, base)
}

func TestUnknownIdentifier(t *testing.T) {
	s := New()
	s.Add("a")

	_, err := s.ToggleComplete(42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Remove(42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Rename(42, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestViewsPartitionItems(t *testing.T) {
	s := New(WithClock(stepClock()))
	for _, title := range []string{"a", "b", "c", "d", "e", "f"} {
		s.Add(title)
	}
	for _, id := range []int{2, 4, 5} {
		_, err := s.ToggleComplete(id)
		require.NoError(t, err)
	}

	inc, comp := ids(s.IncompleteView()), ids(s.CompleteView())
	for id := range inc {
		assert.False(t, comp[id], "identifier %d in both views", id)
	}
	all := ids(s.Items())
	assert.Len(t, all, len(inc)+len(comp))
	for id := range all {
		assert.True(t, inc[id] || comp[id], "identifier %d missing from views", id)
	}

	done, pending := s.Stats()
	assert.Equal(t, 3, done)
	assert.Equal(t, 3, pending)
}

func TestViewsSortMostRecentFirst(t *testing.T) {
	s := New(WithClock(stepClock()))
	s.Add("first")
	s.Add("second")
	s.Add("third")
	for _, id := range []int{1, 3, 1} {
		_, err := s.ToggleComplete(id)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"first", "second"}, titles(s.IncompleteView()))
	assert.Equal(t, []string{"third"}, titles(s.CompleteView()))
}

func TestViewsReturnCopies(t *testing.T) {
	s := New()
	s.Add("a")
	view := s.IncompleteView()
	view[0].Title = "changed"

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title, "view mutation leaked into store")
}

func TestScenario(t *testing.T) {
	s := New(WithClock(stepClock()))

	milk := s.Add("Buy milk")
	require.Equal(t, 1, milk.Identifier)
	require.False(t, milk.Complete)
	dog := s.Add("Walk dog")
	require.Equal(t, 2, dog.Identifier)

	assert.Equal(t, []string{"Walk dog", "Buy milk"}, titles(s.IncompleteView()))

	_, err := s.ToggleComplete(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk"}, titles(s.CompleteView()))

	_, err = s.Remove(2)
	require.NoError(t, err)
	assert.Empty(t, s.IncompleteView())
	assert.Equal(t, []string{"Buy milk"}, titles(s.CompleteView()))
}

func TestRemoveByIdentifierIgnoresViewOrder(t *testing.T) {
	s := New(WithClock(stepClock()))
	s.Add("old")
	s.Add("new")

	// "new" is row 0 of the view but second in storage.
	top := s.IncompleteView()[0]
	removed, err := s.Remove(top.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "new", removed.Title)
	assert.Equal(t, []string{"old"}, titles(s.Items()))
}

func TestRename(t *testing.T) {
	s := New(WithClock(stepClock()))
	it := s.Add("Buy mlik")
	renamed, err := s.Rename(it.Identifier, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", renamed.Title)
	assert.True(t, renamed.ModifiedDate.After(it.ModifiedDate), "rename should refresh modifiedDate")
}

func TestRoundTrip(t *testing.T) {
	s := New(WithClock(stepClock()))
	s.Add("a")
	s.Add("b")
	s.Add("c")
	_, err := s.ToggleComplete(2)
	require.NoError(t, err)

	data, err := s.Serialize()
	require.NoError(t, err)
	loaded, err := Load(data)
	require.NoError(t, err)

	want, got := s.Items(), loaded.Items()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Identifier, got[i].Identifier)
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.Equal(t, want[i].Complete, got[i].Complete)
		assert.True(t, got[i].ModifiedDate.Equal(want[i].ModifiedDate), "item %d date %v, want %v", i, got[i].ModifiedDate, want[i].ModifiedDate)
	}

	next := loaded.Add("d")
	assert.False(t, ids(want)[next.Identifier], "identifier %d reused after round trip", next.Identifier)
}

func TestSerializeEmptyStore(t *testing.T) {
	data, err := New().Serialize()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"list\": []\n}\n", string(data))
}

func TestLoadNonContiguousIdentifiers(t *testing.T) {
	doc := `{"list":[
		{"identifier":1,"title":"a","modifiedDate":"2024-01-01T00:00:00Z","complete":false},
		{"identifier":5,"title":"b","modifiedDate":"2024-01-02T00:00:00Z","complete":true},
		{"identifier":6,"title":"c","modifiedDate":"2024-01-03T00:00:00Z","complete":false}
	]}`
	s, err := Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 7, s.NextIdentifier())
	assert.Equal(t, 7, s.Add("d").Identifier)
}

func itemDoc(id int) []byte {
	return []byte(fmt.Sprintf(`{"list":[{"identifier":%d,"title":"a","modifiedDate":"2024-01-01T00:00:00Z","complete":false}]}`, id))
}

func TestLoadIdentifierBounds(t *testing.T) {
	s, err := Load(itemDoc(MaxIdentifier))
	require.NoError(t, err)
	assert.Equal(t, MaxIdentifier+1, s.NextIdentifier())

	next := s.Add("b")
	assert.Greater(t, next.Identifier, MaxIdentifier)

	_, err = Load(itemDoc(MaxIdentifier + 1))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "list[0].identifier", de.Path)
}

func TestLoadEmptyList(t *testing.T) {
	s, err := Load([]byte(`{"list":[]}`))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Equal(t, 1, s.NextIdentifier())
}

func TestLoadMobileDocument(t *testing.T) {
	doc := `{"list":[{"identifier":3,"title":"장보기","modifiedDate":600000000.5,"complete":true}]}`
	s, err := Load([]byte(doc))
	require.NoError(t, err)

	got := s.CompleteView()
	require.Len(t, got, 1)
	assert.Equal(t, "장보기", got[0].Title)
	want := time.Date(2020, 1, 6, 10, 40, 0, int(500*time.Millisecond), time.UTC)
	assert.True(t, got[0].ModifiedDate.Equal(want), "ModifiedDate = %v, want %v", got[0].ModifiedDate, want)
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		pathSub string
	}{
		{"not json", `{"list": [`, ""},
		{"empty", ``, ""},
		{"wrong root", `[]`, ""},
		{"missing list", `{"items": []}`, ""},
		{"list not array", `{"list": {}}`, "list"},
		{"missing field", `{"list":[{"identifier":1,"title":"a","complete":false}]}`, "list[0]"},
		{"fractional identifier", `{"list":[{"identifier":1.5,"title":"a","modifiedDate":"2024-01-01T00:00:00Z","complete":false}]}`, "list[0].identifier"},
		{"bad date", `{"list":[{"identifier":1,"title":"a","modifiedDate":"soon","complete":false}]}`, ""},
		{"trailing data", `{"list":[]} {}`, ""},
		{"identifier too large", `{"list":[{"identifier":9223372036854775807,"title":"a","modifiedDate":"2024-01-01T00:00:00Z","complete":false}]}`, "list[0].identifier"},
		{"date out of range", `{"list":[{"identifier":1,"title":"a","modifiedDate":1e12,"complete":false}]}`, ""},
		{"duplicate identifier", `{"list":[
			{"identifier":1,"title":"a","modifiedDate":"2024-01-01T00:00:00Z","complete":false},
			{"identifier":1,"title":"b","modifiedDate":"2024-01-01T00:00:00Z","complete":false}]}`, "list[1].identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			if tt.pathSub != "" {
				assert.Contains(t, de.Path, tt.pathSub)
			}
		})
	}
}

func TestPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"/list":              "list",
		"/list/0":            "list[0]",
		"/list/12/title":     "list[12].title",
		"/list/3/identifier": "list[3].identifier",
	}
	for in, want := range tests {
		assert.Equal(t, want, pointerToPath(in), "pointerToPath(%q)", in)
	}
}
