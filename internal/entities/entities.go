package entities

import (
	"time"

	"gorm.io/gorm"
)

type BookStatus string

const (
	StatusWantToRead BookStatus = "want_to_read"
	StatusReading    BookStatus = "reading"
	StatusRead       BookStatus = "read"
)

// ValidStatus reports whether s is one of the known book statuses.
func ValidStatus(s BookStatus) bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

type BookPriority string

const (
	PriorityHigh   BookPriority = "high"
	PriorityNormal BookPriority = "normal"
	PriorityLow    BookPriority = "low"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p BookPriority) bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

type NoteType string

const (
	NoteTypeQuote      NoteType = "quote"
	NoteTypeThought    NoteType = "thought"
	NoteTypeReflection NoteType = "reflection"
)

// ValidNoteType reports whether t is one of the known note types.
func ValidNoteType(t NoteType) bool {
	switch t {
	case NoteTypeQuote, NoteTypeThought, NoteTypeReflection:
		return true
	}
	return false
}

type Book struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index" json:"-"`
	Title  string `gorm:"size:200;not null" json:"title"`

	Author    string `gorm:"index;size:100" json:"author"`
	Publisher string `gorm:"size:100" json:"publisher"`
	Genre     string `gorm:"size:50" json:"genre"`
	Pages     int    `json:"pages"`
	CoverURL  string `gorm:"size:500" json:"cover_url"`

	Status     BookStatus   `gorm:"size:20;index;default:'want_to_read'" json:"status"`
	QueueOrder int          `gorm:"default:0" json:"queue_order"`
	Priority   BookPriority `gorm:"size:20;default:'normal'" json:"priority"`

	// Purchase info
	PurchasePlace string   `gorm:"size:100" json:"purchase_place"`
	PurchasePrice *float64 `json:"purchase_price"`
	PurchaseDate  *Date    `json:"purchase_date"`
	DeliveryDays  *int     `json:"delivery_days"`

	// Reading window
	StartDate   *Date  `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	CurrentPage int    `gorm:"default:0" json:"current_page"`
	Rating      *int   `json:"rating"`
	Observations string `gorm:"type:text" json:"observations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PagesRead is derived from diary entries on every read, never stored.
	PagesRead int `gorm:"-" json:"pages_read"`

	DiaryEntries []DiaryEntry `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Notes        []Note       `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
}

// DiaryEntry records one calendar day of reading (or a skipped day).
// At most one entry exists per (user, date).
type DiaryEntry struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex:idx_diary_user_date" json:"-"`
	BookID *uint `gorm:"index" json:"book_id"`
	Date   Date  `gorm:"uniqueIndex:idx_diary_user_date;not null" json:"date"`

	PagesRead   int    `gorm:"default:0" json:"pages_read"`
	ReadingTime *int   `json:"reading_time"` // minutes
	DidRead     bool   `gorm:"default:true" json:"did_read"`
	SkipReason  string `gorm:"size:100" json:"skip_reason"`
	Notes       string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`

	// BookTitle is filled from the joined book for serialization.
	BookTitle string `gorm:"-" json:"book_title"`
}

type Note struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	UserID     uint     `gorm:"index" json:"-"`
	BookID     uint     `gorm:"index;not null" json:"book_id"`
	Type       NoteType `gorm:"size:20;default:'thought'" json:"type"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	PageNumber *int     `json:"page_number"`

	CreatedAt time.Time `json:"created_at"`

	BookTitle string `gorm:"-" json:"book_title"`
}

// DailyQuote is a seeded literary quote shown on the dashboard.
// Read-only at runtime.
type DailyQuote struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Quote  string `gorm:"type:text;not null" json:"quote"`
	Author string `gorm:"size:100" json:"author"`
	Book   string `gorm:"size:200" json:"book"`
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`

	// API token (hash only, plaintext shown once at generation)
	TokenHash      string     `gorm:"index;size:64" json:"-"`
	TokenCreatedAt *time.Time `json:"-"`

	// Login lockout bookkeeping
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

func (DiaryEntry) TableName() string {
	return "reading_diary"
}

func (Note) TableName() string {
	return "notes"
}

func (DailyQuote) TableName() string {
	return "daily_quotes"
}

func (User) TableName() string {
	return "users"
}
