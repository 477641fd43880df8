package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-keepintouch/internal/config"
)

// ErrNotFound is returned when a record id does not resolve.
var ErrNotFound = errors.New(config.ErrRecordNotFound)

// Clock abstracts time.Now() so record timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Store holds every record collection in process memory. It is constructed
// once at startup and passed by reference to consumers; data is lost on
// restart by design.
//
// The guard exists because the HTTP server and the background worker read
// concurrently with UI-triggered writes; individual operations are still
// sequential and short.
type Store struct {
	mu    sync.RWMutex
	clock Clock

	people       map[string]Person
	events       map[string]BirthdayEvent
	notes        map[string]Note
	interactions map[string]Interaction
	rules        map[string]FollowupRule // keyed by person id: one rule per person
	followups    map[string]Followup
	todos        map[string]Todo
	settings     Settings
}

// New creates an empty store using the given clock.
func New(clock Clock) *Store {
	return &Store{
		clock:        clock,
		people:       make(map[string]Person),
		events:       make(map[string]BirthdayEvent),
		notes:        make(map[string]Note),
		interactions: make(map[string]Interaction),
		rules:        make(map[string]FollowupRule),
		followups:    make(map[string]Followup),
		todos:        make(map[string]Todo),
		settings: Settings{
			ShowClientsTab:       false,
			NotificationsEnabled: true,
			DefaultReminderDays:  config.DefaultReminderDays,
		},
	}
}

func newID() string {
	return uuid.NewString()
}

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

// Settings returns a copy of the current settings record.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings replaces the settings record as a whole.
func (s *Store) UpdateSettings(set Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = set
}

// -----------------------------------------------------------------------------
// People
// -----------------------------------------------------------------------------

// CreatePerson validates and stores a new person, returning its generated id.
// Zero-valued optional fields receive defaults matching manual entry.
func (s *Store) CreatePerson(p Person) (string, error) {
	if p.Name == "" {
		return "", errors.New(config.ErrNameRequired)
	}
	if p.Category == "" {
		p.Category = CategoryFriend
	}
	if !p.Category.Valid() {
		return "", fmt.Errorf("%s: %q", config.ErrBadCategory, p.Category)
	}
	if !p.PreferredChannel.Valid() {
		return "", fmt.Errorf("%s: %q", config.ErrBadChannel, p.PreferredChannel)
	}
	if p.Priority == 0 {
		p.Priority = PriorityLow
	}
	if !p.Priority.Valid() {
		return "", fmt.Errorf("%s: %d", config.ErrBadPriority, p.Priority)
	}
	if p.ColorHex == "" {
		p.ColorHex = DefaultColorHex
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.people[p.ID] = p
	return p.ID, nil
}

// UpdatePerson merges non-nil fields into an existing person and refreshes
// its UpdatedAt timestamp.
func (s *Store) UpdatePerson(id string, upd PersonUpdate) error {
	if upd.Category != nil && !upd.Category.Valid() {
		return fmt.Errorf("%s: %q", config.ErrBadCategory, *upd.Category)
	}
	if upd.PreferredChannel != nil && !upd.PreferredChannel.Valid() {
		return fmt.Errorf("%s: %q", config.ErrBadChannel, *upd.PreferredChannel)
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return fmt.Errorf("%s: %d", config.ErrBadPriority, *upd.Priority)
	}
	if upd.Name != nil && *upd.Name == "" {
		return errors.New(config.ErrNameRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.people[id]
	if !ok {
		return fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.ContactID != nil {
		p.ContactID = *upd.ContactID
	}
	if upd.PhotoURI != nil {
		p.PhotoURI = *upd.PhotoURI
	}
	if upd.ColorHex != nil {
		p.ColorHex = *upd.ColorHex
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Company != nil {
		p.Company = *upd.Company
	}
	if upd.Role != nil {
		p.Role = *upd.Role
	}
	if upd.PreferredChannel != nil {
		p.PreferredChannel = *upd.PreferredChannel
	}
	if upd.Priority != nil {
		p.Priority = *upd.Priority
	}
	if upd.IsFavorite != nil {
		p.IsFavorite = *upd.IsFavorite
	}
	p.UpdatedAt = s.clock.Now()
	s.people[id] = p
	return nil
}

// People returns all people, or only those of the given category when it is
// non-empty, sorted by name.
func (s *Store) People(category Category) []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Person, 0, len(s.people))
	for _, p := range s.people {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PersonByID resolves a single person.
func (s *Store) PersonByID(id string) (Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.people[id]
	if !ok {
		return Person{}, fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	return p, nil
}

// FindByContactID returns the person linked to an external contact id.
func (s *Store) FindByContactID(contactID string) (Person, bool) {
	if contactID == "" {
		return Person{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.people {
		if p.ContactID == contactID {
			return p, true
		}
	}
	return Person{}, false
}

// FindByName returns the first person with an exactly matching name.
// Names are not unique; this is the best-effort duplicate check for imports.
func (s *Store) FindByName(name string) (Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.people {
		if p.Name == name {
			return p, true
		}
	}
	return Person{}, false
}

// DeletePerson removes a person and cascades to their events, notes,
// interactions, cadence rule, ad-hoc follow-ups, and unlinks their todos.
func (s *Store) DeletePerson(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[id]; !ok {
		return fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	delete(s.people, id)
	for k, e := range s.events {
		if e.PersonID == id {
			delete(s.events, k)
		}
	}
	for k, n := range s.notes {
		if n.PersonID == id {
			delete(s.notes, k)
		}
	}
	for k, i := range s.interactions {
		if i.PersonID == id {
			delete(s.interactions, k)
		}
	}
	delete(s.rules, id)
	for k, f := range s.followups {
		if f.PersonID == id {
			delete(s.followups, k)
		}
	}
	for k, t := range s.todos {
		if t.PersonID == id {
			t.PersonID = ""
			s.todos[k] = t
		}
	}

	slog.Debug(config.MsgPersonDeleted,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyPersonID, id,
	)
	return nil
}

// -----------------------------------------------------------------------------
// Birthday Events
// -----------------------------------------------------------------------------

// CreateEvent validates and stores a birthday event for a person.
func (s *Store) CreateEvent(e BirthdayEvent) (string, error) {
	if err := ValidateMonthDay(e.Month, e.Day, e.Year); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[e.PersonID]; !ok {
		return "", fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	e.ID = newID()
	e.CreatedAt = s.clock.Now()
	s.events[e.ID] = e
	return e.ID, nil
}

// EventsByPersonID returns all birthday events for a person.
func (s *Store) EventsByPersonID(personID string) []BirthdayEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []BirthdayEvent
	for _, e := range s.events {
		if e.PersonID == personID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// BirthdayPeople joins every birthday event with its person. Events whose
// person has been removed are skipped.
func (s *Store) BirthdayPeople() []BirthdayPerson {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []BirthdayPerson
	for _, e := range s.events {
		p, ok := s.people[e.PersonID]
		if !ok {
			continue
		}
		out = append(out, BirthdayPerson{
			Person: p,
			Month:  e.Month,
			Day:    e.Day,
			Year:   e.Year,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// -----------------------------------------------------------------------------
// Notes
// -----------------------------------------------------------------------------

// CreateNote stores a note for a person. An empty title gets a dated default.
func (s *Store) CreateNote(personID, title, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[personID]; !ok {
		return "", fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	now := s.clock.Now()
	if title == "" {
		title = fmt.Sprintf(DefaultNoteTitleFormat, now.Format(config.DateFormatFullDash))
	}
	n := Note{
		ID:        newID(),
		PersonID:  personID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes[n.ID] = n
	return n.ID, nil
}

// UpdateNote merges non-nil fields into a note and refreshes UpdatedAt.
func (s *Store) UpdateNote(id string, upd NoteUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Title != nil {
		n.Title = *upd.Title
	}
	if upd.Body != nil {
		n.Body = *upd.Body
	}
	n.UpdatedAt = s.clock.Now()
	s.notes[id] = n
	return nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

// NotesByPersonID returns a person's notes, most recently updated first.
func (s *Store) NotesByPersonID(personID string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Note
	for _, n := range s.notes {
		if n.PersonID == personID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// -----------------------------------------------------------------------------
// Interactions
// -----------------------------------------------------------------------------

// CreateInteraction records a contact with a person. Interactions are
// immutable once created.
func (s *Store) CreateInteraction(i Interaction) (string, error) {
	if !i.Channel.Valid() {
		return "", fmt.Errorf("%s: %q", config.ErrBadChannel, i.Channel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[i.PersonID]; !ok {
		return "", fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	i.ID = newID()
	i.CreatedAt = s.clock.Now()
	if i.HappenedAt.IsZero() {
		i.HappenedAt = i.CreatedAt
	}
	s.interactions[i.ID] = i
	return i.ID, nil
}

// InteractionsByPersonID returns a person's interactions, newest first.
func (s *Store) InteractionsByPersonID(personID string) []Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Interaction
	for _, i := range s.interactions {
		if i.PersonID == personID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].HappenedAt.After(out[b].HappenedAt) })
	return out
}

// LastInteraction returns the most recent interaction for a person.
func (s *Store) LastInteraction(personID string) (Interaction, bool) {
	all := s.InteractionsByPersonID(personID)
	if len(all) == 0 {
		return Interaction{}, false
	}
	return all[0], true
}

// -----------------------------------------------------------------------------
// Follow-up Rules (one per person)
// -----------------------------------------------------------------------------

// PutRule inserts or overwrites the cadence rule for rule.PersonID.
// Last write wins; the previous rule id is retained on overwrite.
func (s *Store) PutRule(rule FollowupRule) (string, error) {
	if rule.CadenceDays <= 0 {
		return "", fmt.Errorf("%s: %d", config.ErrBadCadence, rule.CadenceDays)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[rule.PersonID]; !ok {
		return "", fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	now := s.clock.Now()
	if prev, ok := s.rules[rule.PersonID]; ok {
		rule.ID = prev.ID
		rule.CreatedAt = prev.CreatedAt
	} else {
		rule.ID = newID()
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	s.rules[rule.PersonID] = rule
	return rule.ID, nil
}

// RuleByPersonID returns the cadence rule for a person, if any.
func (s *Store) RuleByPersonID(personID string) (FollowupRule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[personID]
	return r, ok
}

// SetRuleNextDue rewrites the next-due timestamp of a person's rule.
func (s *Store) SetRuleNextDue(personID string, nextDue time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[personID]
	if !ok {
		return ErrNotFound
	}
	r.NextDue = nextDue
	r.UpdatedAt = s.clock.Now()
	s.rules[personID] = r
	return nil
}

// EnabledRules joins every enabled rule to its person, sorted by next_due
// ascending. Used when replanning notifications for all tracked people.
func (s *Store) EnabledRules() []RulePerson {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RulePerson
	for _, r := range s.rules {
		if !r.Enabled {
			continue
		}
		p, ok := s.people[r.PersonID]
		if !ok {
			continue
		}
		out = append(out, RulePerson{
			Person:      p,
			RuleID:      r.ID,
			CadenceDays: r.CadenceDays,
			NextDue:     r.NextDue,
			Enabled:     r.Enabled,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDue.Before(out[j].NextDue) })
	return out
}

// DueRules joins enabled rules with next_due at or before the horizon to
// their people, sorted by next_due ascending. Rules whose person vanished
// are skipped.
func (s *Store) DueRules(horizon time.Time) []RulePerson {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RulePerson
	for _, r := range s.rules {
		if !r.Enabled || r.NextDue.After(horizon) {
			continue
		}
		p, ok := s.people[r.PersonID]
		if !ok {
			continue
		}
		out = append(out, RulePerson{
			Person:      p,
			RuleID:      r.ID,
			CadenceDays: r.CadenceDays,
			NextDue:     r.NextDue,
			Enabled:     r.Enabled,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDue.Before(out[j].NextDue) })
	return out
}

// -----------------------------------------------------------------------------
// Ad-hoc Follow-ups
// -----------------------------------------------------------------------------

// CreateFollowup stores a standalone follow-up task for a person.
func (s *Store) CreateFollowup(f Followup) (string, error) {
	if f.Priority == 0 {
		f.Priority = PriorityMedium
	}
	if !f.Priority.Valid() {
		return "", fmt.Errorf("%s: %d", config.ErrBadPriority, f.Priority)
	}
	if f.Status == "" {
		f.Status = StatusPending
	}
	if !f.Status.Valid() {
		return "", fmt.Errorf("%s: %q", config.ErrBadStatus, f.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.people[f.PersonID]; !ok {
		return "", fmt.Errorf("%s: %w", config.ErrPersonNotFound, ErrNotFound)
	}
	now := s.clock.Now()
	f.ID = newID()
	f.CreatedAt = now
	f.UpdatedAt = now
	s.followups[f.ID] = f
	return f.ID, nil
}

// UpdateFollowup merges non-nil fields into a follow-up and refreshes
// UpdatedAt.
func (s *Store) UpdateFollowup(id string, upd FollowupUpdate) error {
	if upd.Priority != nil && !upd.Priority.Valid() {
		return fmt.Errorf("%s: %d", config.ErrBadPriority, *upd.Priority)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return fmt.Errorf("%s: %q", config.ErrBadStatus, *upd.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.followups[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Title != nil {
		f.Title = *upd.Title
	}
	if upd.Description != nil {
		f.Description = *upd.Description
	}
	if upd.DueDate != nil {
		f.DueDate = *upd.DueDate
	}
	if upd.Priority != nil {
		f.Priority = *upd.Priority
	}
	if upd.Status != nil {
		f.Status = *upd.Status
	}
	f.UpdatedAt = s.clock.Now()
	s.followups[id] = f
	return nil
}

// DeleteFollowup removes an ad-hoc follow-up.
func (s *Store) DeleteFollowup(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.followups[id]; !ok {
		return ErrNotFound
	}
	delete(s.followups, id)
	return nil
}

// FollowupsByPersonID returns a person's ad-hoc follow-ups, soonest due first.
func (s *Store) FollowupsByPersonID(personID string) []Followup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Followup
	for _, f := range s.followups {
		if f.PersonID == personID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// ActiveFollowups returns every pending follow-up.
func (s *Store) ActiveFollowups() []Followup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Followup
	for _, f := range s.followups {
		if f.Status == StatusPending {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// DueFollowups returns pending follow-ups whose due date is at or before now.
func (s *Store) DueFollowups(now time.Time) []Followup {
	var out []Followup
	for _, f := range s.ActiveFollowups() {
		if !f.DueDate.After(now) {
			out = append(out, f)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Todos
// -----------------------------------------------------------------------------

// CreateTodo stores a todo item.
func (s *Store) CreateTodo(t Todo) (string, error) {
	if t.Priority == 0 {
		t.Priority = PriorityMedium
	}
	if !t.Priority.Valid() {
		return "", fmt.Errorf("%s: %d", config.ErrBadPriority, t.Priority)
	}
	if t.Category == "" {
		t.Category = TodoGeneral
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	t.ID = newID()
	t.Completed = false
	t.CreatedAt = now
	t.UpdatedAt = now
	s.todos[t.ID] = t
	return t.ID, nil
}

// UpdateTodo merges non-nil fields into a todo and refreshes UpdatedAt.
func (s *Store) UpdateTodo(id string, upd TodoUpdate) error {
	if upd.Priority != nil && !upd.Priority.Valid() {
		return fmt.Errorf("%s: %d", config.ErrBadPriority, *upd.Priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.DueDate != nil {
		t.DueDate = *upd.DueDate
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	t.UpdatedAt = s.clock.Now()
	s.todos[id] = t
	return nil
}

// DeleteTodo removes a todo.
func (s *Store) DeleteTodo(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

// ToggleTodoComplete flips the completed flag and returns the updated todo.
func (s *Store) ToggleTodoComplete(id string) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return Todo{}, ErrNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.clock.Now()
	s.todos[id] = t
	return t, nil
}

// Todos returns every todo, soonest due first.
func (s *Store) Todos() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// TodosForDate returns todos due on the same calendar day as date.
func (s *Store) TodosForDate(date time.Time) []Todo {
	y, m, d := date.Date()
	var out []Todo
	for _, t := range s.Todos() {
		ty, tm, td := t.DueDate.Date()
		if ty == y && tm == m && td == d {
			out = append(out, t)
		}
	}
	return out
}

// TodosForTomorrow returns todos due one day after the store clock's today.
func (s *Store) TodosForTomorrow() []Todo {
	return s.TodosForDate(s.clock.Now().AddDate(0, 0, 1))
}
