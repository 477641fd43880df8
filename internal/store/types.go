package store

import "time"

// Category classifies the relationship to a person.
// Free-form category strings caused typo-driven branching in earlier
// prototypes; the closed set makes exhaustiveness checkable.
type Category string

const (
	CategoryFriend Category = "friend"
	CategoryFamily Category = "family"
	CategoryClient Category = "client"
)

// Valid reports whether the category is one of the fixed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFriend, CategoryFamily, CategoryClient:
		return true
	}
	return false
}

// Channel identifies how an interaction happened.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelPhone    Channel = "phone"
	ChannelSMS      Channel = "sms"
	ChannelInPerson Channel = "in_person"
	ChannelVideo    Channel = "video"
	ChannelSocial   Channel = "social"
	ChannelOther    Channel = "other"
)

// Valid reports whether the channel is known. The empty channel is allowed
// (interactions may omit it).
func (c Channel) Valid() bool {
	switch c {
	case "", ChannelEmail, ChannelPhone, ChannelSMS, ChannelInPerson, ChannelVideo, ChannelSocial, ChannelOther:
		return true
	}
	return false
}

// PriorityTier ranks people and ad-hoc follow-ups. Higher is more urgent.
type PriorityTier int

const (
	PriorityLow    PriorityTier = 1
	PriorityMedium PriorityTier = 2
	PriorityHigh   PriorityTier = 3
)

// Valid reports whether the tier is within the defined band.
func (p PriorityTier) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// FollowupStatus is the lifecycle state of an ad-hoc follow-up.
type FollowupStatus string

const (
	StatusPending   FollowupStatus = "pending"
	StatusCompleted FollowupStatus = "completed"
	StatusCancelled FollowupStatus = "cancelled"
)

// Valid reports whether the status is known.
func (s FollowupStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TodoCategory loosely groups todo items.
type TodoCategory string

const (
	TodoGeneral  TodoCategory = "general"
	TodoFollowup TodoCategory = "follow-up"
	TodoBirthday TodoCategory = "birthday"
)

// Person is a tracked contact.
type Person struct {
	ID        string
	Name      string
	ContactID string // External contact identifier from an import source, if any.
	PhotoURI  string
	ColorHex  string
	Category  Category
	Company   string
	Role      string

	PreferredChannel Channel
	Priority         PriorityTier
	IsFavorite       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PersonUpdate carries a partial update; nil fields are left untouched.
type PersonUpdate struct {
	Name             *string
	ContactID        *string
	PhotoURI         *string
	ColorHex         *string
	Category         *Category
	Company          *string
	Role             *string
	PreferredChannel *Channel
	Priority         *PriorityTier
	IsFavorite       *bool
}

// BirthdayEvent is an annual date attached to a person.
// Immutable once created; Year is zero when the birth year is unknown.
type BirthdayEvent struct {
	ID        string
	PersonID  string
	Month     int
	Day       int
	Year      int
	CreatedAt time.Time
}

// BirthdayPerson joins a person with their birthday event fields, as
// consumed by the birthday engine.
type BirthdayPerson struct {
	Person
	Month int
	Day   int
	Year  int
}

// Note is free text attached to a person.
type Note struct {
	ID        string
	PersonID  string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteUpdate carries a partial note update; nil fields are left untouched.
type NoteUpdate struct {
	Title *string
	Body  *string
}

// Interaction records a single contact with a person. Immutable once created.
type Interaction struct {
	ID         string
	PersonID   string
	HappenedAt time.Time
	Channel    Channel
	Summary    string
	CreatedAt  time.Time
}

// FollowupRule is the recurring cadence rule for a person.
// At most one rule exists per person; last write wins.
type FollowupRule struct {
	ID          string
	PersonID    string
	CadenceDays int
	NextDue     time.Time
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RulePerson joins an enabled cadence rule with its person, as consumed by
// the follow-up engine.
type RulePerson struct {
	Person
	RuleID      string
	CadenceDays int
	NextDue     time.Time
	Enabled     bool
}

// Followup is a standalone task with its own due date and status,
// independent of the recurring cadence-rule model. A person may have any
// number of open follow-ups.
type Followup struct {
	ID          string
	PersonID    string
	Title       string
	Description string
	DueDate     time.Time
	Priority    PriorityTier
	Status      FollowupStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FollowupUpdate carries a partial update; nil fields are left untouched.
type FollowupUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *PriorityTier
	Status      *FollowupStatus
}

// Todo is a loose task, optionally linked to a person.
type Todo struct {
	ID          string
	PersonID    string // Empty when not linked to a person.
	Title       string
	Description string
	DueDate     time.Time
	Completed   bool
	Priority    PriorityTier
	Category    TodoCategory
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoUpdate carries a partial update; nil fields are left untouched.
type TodoUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
	Priority    *PriorityTier
	Category    *TodoCategory
}

// Settings is the process-wide configuration record. It is read and written
// as a whole object.
type Settings struct {
	ShowClientsTab       bool
	NotificationsEnabled bool
	DefaultReminderDays  int
}
