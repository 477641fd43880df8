package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-keepintouch/internal/store"
)

// mockClock lets tests control record timestamps.
type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

func newTestStore() (*store.Store, *mockClock) {
	clock := &mockClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
	return store.New(clock), clock
}

func mustCreatePerson(t *testing.T, s *store.Store, name string) string {
	t.Helper()
	id, err := s.CreatePerson(store.Person{Name: name})
	require.NoError(t, err)
	return id
}

// TestCreatePerson_Defaults verifies that zero-valued optional fields receive
// the defaults applied to manual entry.
func TestCreatePerson_Defaults(t *testing.T) {
	s, clock := newTestStore()

	id, err := s.CreatePerson(store.Person{Name: "Ada Lovelace"})
	require.NoError(t, err)

	p, err := s.PersonByID(id)
	require.NoError(t, err)

	assert.Equal(t, store.CategoryFriend, p.Category)
	assert.Equal(t, store.PriorityLow, p.Priority)
	assert.Equal(t, store.DefaultColorHex, p.ColorHex)
	assert.Equal(t, clock.now, p.CreatedAt)
	assert.Equal(t, clock.now, p.UpdatedAt)
}

func TestCreatePerson_Validation(t *testing.T) {
	s, _ := newTestStore()

	tests := []struct {
		name   string
		person store.Person
	}{
		{"empty name", store.Person{}},
		{"unknown category", store.Person{Name: "X", Category: "enemy"}},
		{"unknown channel", store.Person{Name: "X", PreferredChannel: "fax"}},
		{"priority out of band", store.Person{Name: "X", Priority: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreatePerson(tt.person)
			assert.Error(t, err)
		})
	}
}

// TestUpdatePerson_PartialMerge verifies that only non-nil fields change and
// that UpdatedAt moves forward.
func TestUpdatePerson_PartialMerge(t *testing.T) {
	s, clock := newTestStore()
	id := mustCreatePerson(t, s, "Grace Hopper")

	created := clock.now
	clock.now = clock.now.Add(time.Hour)

	company := "Navy"
	cat := store.CategoryClient
	require.NoError(t, s.UpdatePerson(id, store.PersonUpdate{Company: &company, Category: &cat}))

	p, err := s.PersonByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", p.Name, "untouched field must survive the merge")
	assert.Equal(t, "Navy", p.Company)
	assert.Equal(t, store.CategoryClient, p.Category)
	assert.Equal(t, created, p.CreatedAt)
	assert.True(t, p.UpdatedAt.After(created))

	empty := ""
	assert.Error(t, s.UpdatePerson(id, store.PersonUpdate{Name: &empty}), "name cannot be blanked")
	assert.ErrorIs(t, s.UpdatePerson("missing", store.PersonUpdate{}), store.ErrNotFound)
}

func TestPeople_FilterAndSort(t *testing.T) {
	s, _ := newTestStore()
	mustCreatePerson(t, s, "Zoe")
	mustCreatePerson(t, s, "Adam")
	clientID, err := s.CreatePerson(store.Person{Name: "Marge", Category: store.CategoryClient})
	require.NoError(t, err)

	all := s.People("")
	require.Len(t, all, 3)
	assert.Equal(t, "Adam", all[0].Name)
	assert.Equal(t, "Zoe", all[2].Name)

	clients := s.People(store.CategoryClient)
	require.Len(t, clients, 1)
	assert.Equal(t, clientID, clients[0].ID)
}

// TestDeletePerson_Cascades verifies that deleting a person removes all
// dependent records and unlinks (but keeps) their todos.
func TestDeletePerson_Cascades(t *testing.T) {
	s, clock := newTestStore()
	id := mustCreatePerson(t, s, "Ada")

	_, err := s.CreateEvent(store.BirthdayEvent{PersonID: id, Month: 1, Day: 2, Year: 1990})
	require.NoError(t, err)
	_, err = s.CreateNote(id, "t", "b")
	require.NoError(t, err)
	_, err = s.CreateInteraction(store.Interaction{PersonID: id, Channel: store.ChannelEmail})
	require.NoError(t, err)
	_, err = s.PutRule(store.FollowupRule{PersonID: id, CadenceDays: 30, NextDue: clock.now, Enabled: true})
	require.NoError(t, err)
	_, err = s.CreateFollowup(store.Followup{PersonID: id, Title: "call back"})
	require.NoError(t, err)
	todoID, err := s.CreateTodo(store.Todo{PersonID: id, Title: "send card"})
	require.NoError(t, err)

	require.NoError(t, s.DeletePerson(id))

	_, err = s.PersonByID(id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, s.EventsByPersonID(id))
	assert.Empty(t, s.NotesByPersonID(id))
	assert.Empty(t, s.InteractionsByPersonID(id))
	_, ok := s.RuleByPersonID(id)
	assert.False(t, ok)
	assert.Empty(t, s.FollowupsByPersonID(id))

	todos := s.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, todoID, todos[0].ID)
	assert.Empty(t, todos[0].PersonID, "todo must be unlinked, not deleted")
}

func TestCreateEvent_Validation(t *testing.T) {
	s, _ := newTestStore()
	id := mustCreatePerson(t, s, "Ada")

	tests := []struct {
		name    string
		month   int
		day     int
		year    int
		wantErr bool
	}{
		{"valid date", 3, 14, 1990, false},
		{"leap day with unknown year", 2, 29, 0, false},
		{"leap day in leap year", 2, 29, 2000, false},
		{"leap day in non-leap year", 2, 29, 2001, true},
		{"day overflow", 2, 30, 0, true},
		{"month underflow", 0, 1, 0, true},
		{"month overflow", 13, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateEvent(store.BirthdayEvent{PersonID: id, Month: tt.month, Day: tt.day, Year: tt.year})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := s.CreateEvent(store.BirthdayEvent{PersonID: "missing", Month: 1, Day: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBirthdayPeople_Join(t *testing.T) {
	s, _ := newTestStore()
	id := mustCreatePerson(t, s, "Ada")
	_, err := s.CreateEvent(store.BirthdayEvent{PersonID: id, Month: 12, Day: 10, Year: 1815})
	require.NoError(t, err)

	joined := s.BirthdayPeople()
	require.Len(t, joined, 1)
	assert.Equal(t, "Ada", joined[0].Name)
	assert.Equal(t, 12, joined[0].Month)
	assert.Equal(t, 10, joined[0].Day)
	assert.Equal(t, 1815, joined[0].Year)
}

func TestNotes_DefaultTitleAndOrdering(t *testing.T) {
	s, clock := newTestStore()
	id := mustCreatePerson(t, s, "Ada")

	first, err := s.CreateNote(id, "", "body")
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Hour)
	second, err := s.CreateNote(id, "Later", "body")
	require.NoError(t, err)

	notes := s.NotesByPersonID(id)
	require.Len(t, notes, 2)
	assert.Equal(t, second, notes[0].ID, "most recently updated first")
	assert.Equal(t, "Note 2025-06-15", notes[1].Title)

	// Updating the older note moves it to the front.
	clock.now = clock.now.Add(time.Hour)
	title := "Revisited"
	require.NoError(t, s.UpdateNote(first, store.NoteUpdate{Title: &title}))
	notes = s.NotesByPersonID(id)
	assert.Equal(t, first, notes[0].ID)
}

func TestInteractions_HappenedAtDefaultAndLast(t *testing.T) {
	s, clock := newTestStore()
	id := mustCreatePerson(t, s, "Ada")

	_, err := s.CreateInteraction(store.Interaction{PersonID: id, Channel: "carrier_pigeon"})
	assert.Error(t, err, "unknown channel must be rejected")

	older := clock.now.Add(-48 * time.Hour)
	_, err = s.CreateInteraction(store.Interaction{PersonID: id, HappenedAt: older, Channel: store.ChannelPhone})
	require.NoError(t, err)

	newest, err := s.CreateInteraction(store.Interaction{PersonID: id, Channel: store.ChannelEmail})
	require.NoError(t, err)

	last, ok := s.LastInteraction(id)
	require.True(t, ok)
	assert.Equal(t, newest, last.ID)
	assert.Equal(t, clock.now, last.HappenedAt, "zero HappenedAt defaults to now")
}

// TestPutRule_SinglePerRule verifies the one-rule-per-person invariant:
// rewriting keeps the original id and creation time.
func TestPutRule_SinglePerPerson(t *testing.T) {
	s, clock := newTestStore()
	id := mustCreatePerson(t, s, "Ada")

	_, err := s.PutRule(store.FollowupRule{PersonID: id, CadenceDays: 0})
	assert.Error(t, err, "cadence must be positive")

	first, err := s.PutRule(store.FollowupRule{PersonID: id, CadenceDays: 30, NextDue: clock.now, Enabled: true})
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Hour)
	second, err := s.PutRule(store.FollowupRule{PersonID: id, CadenceDays: 60, NextDue: clock.now, Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, first, second, "overwrite retains the rule id")

	rule, ok := s.RuleByPersonID(id)
	require.True(t, ok)
	assert.Equal(t, 60, rule.CadenceDays)
}

func TestDueRules_HorizonAndEnabled(t *testing.T) {
	s, clock := newTestStore()
	now := clock.now

	overdueID := mustCreatePerson(t, s, "Overdue")
	soonID := mustCreatePerson(t, s, "Soon")
	laterID := mustCreatePerson(t, s, "Later")
	disabledID := mustCreatePerson(t, s, "Disabled")

	_, err := s.PutRule(store.FollowupRule{PersonID: overdueID, CadenceDays: 30, NextDue: now.AddDate(0, 0, -2), Enabled: true})
	require.NoError(t, err)
	_, err = s.PutRule(store.FollowupRule{PersonID: soonID, CadenceDays: 30, NextDue: now.AddDate(0, 0, 2), Enabled: true})
	require.NoError(t, err)
	_, err = s.PutRule(store.FollowupRule{PersonID: laterID, CadenceDays: 30, NextDue: now.AddDate(0, 0, 10), Enabled: true})
	require.NoError(t, err)
	_, err = s.PutRule(store.FollowupRule{PersonID: disabledID, CadenceDays: 30, NextDue: now.AddDate(0, 0, -5), Enabled: false})
	require.NoError(t, err)

	due := s.DueRules(now.AddDate(0, 0, 3))
	require.Len(t, due, 2)
	assert.Equal(t, overdueID, due[0].Person.ID, "sorted by next_due ascending")
	assert.Equal(t, soonID, due[1].Person.ID)

	enabled := s.EnabledRules()
	assert.Len(t, enabled, 3, "disabled rules never join")
}

func TestFollowups_AdHocLifecycle(t *testing.T) {
	s, clock := newTestStore()
	id := mustCreatePerson(t, s, "Ada")

	fid, err := s.CreateFollowup(store.Followup{PersonID: id, Title: "send proposal", DueDate: clock.now.AddDate(0, 0, -1)})
	require.NoError(t, err)

	active := s.ActiveFollowups()
	require.Len(t, active, 1)
	assert.Equal(t, store.StatusPending, active[0].Status, "status defaults to pending")
	assert.Equal(t, store.PriorityMedium, active[0].Priority)

	assert.Len(t, s.DueFollowups(clock.now), 1)

	done := store.StatusCompleted
	require.NoError(t, s.UpdateFollowup(fid, store.FollowupUpdate{Status: &done}))
	assert.Empty(t, s.ActiveFollowups())

	require.NoError(t, s.DeleteFollowup(fid))
	assert.ErrorIs(t, s.DeleteFollowup(fid), store.ErrNotFound)
}

func TestTodos_ToggleAndTomorrow(t *testing.T) {
	s, clock := newTestStore()

	tomorrow := clock.now.AddDate(0, 0, 1)
	id, err := s.CreateTodo(store.Todo{Title: "buy gift", DueDate: tomorrow})
	require.NoError(t, err)
	_, err = s.CreateTodo(store.Todo{Title: "next week", DueDate: clock.now.AddDate(0, 0, 7)})
	require.NoError(t, err)

	due := s.TodosForTomorrow()
	require.Len(t, due, 1)
	assert.Equal(t, id, due[0].ID)

	toggled, err := s.ToggleTodoComplete(id)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = s.ToggleTodoComplete(id)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestSettings_RoundTrip(t *testing.T) {
	s, _ := newTestStore()

	def := s.Settings()
	assert.True(t, def.NotificationsEnabled, "notifications default to on")

	s.UpdateSettings(store.Settings{ShowClientsTab: true, NotificationsEnabled: false, DefaultReminderDays: 3})
	got := s.Settings()
	assert.True(t, got.ShowClientsTab)
	assert.False(t, got.NotificationsEnabled)
	assert.Equal(t, 3, got.DefaultReminderDays)
}
