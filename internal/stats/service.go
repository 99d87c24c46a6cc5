// Package stats computes the derived state of a user's library: the reading
// streak, day/month/year aggregation for charts, spending, reading-time
// distribution and the dashboard overview. All computation is pure over
// records fetched through the injected store interfaces; nothing here writes
// to the database, and every aggregate degrades to a zero value on empty
// data instead of erroring.
package stats

import (
	"errors"
	"math"

	"github.com/Miguel-Lopes31/poetas-mortos/internal/database/books"
	"github.com/Miguel-Lopes31/poetas-mortos/internal/entities"
)

// BookStore is the book-side data the statistics need.
type BookStore interface {
	CountByStatus(userID uint) (total, read, reading, want int64, err error)
	Current(userID uint) (*entities.Book, error)
	FinishedWindows(userID uint) ([]entities.Book, error)
	Purchases(userID uint) ([]entities.Book, error)
	PublisherCounts(userID uint) ([]books.PublisherCount, error)
}

// DiaryStore is the diary-side data the statistics need.
type DiaryStore interface {
	ReadLookup
	PagesOnDate(userID uint, date entities.Date) (int, error)
	EntriesSince(userID uint, from entities.Date) ([]entities.DiaryEntry, error)
	AllEntries(userID uint) ([]entities.DiaryEntry, error)
}

// Overview is the dashboard payload.
type Overview struct {
	TotalBooks   int64          `json:"total_books"`
	BooksRead    int64          `json:"books_read"`
	BooksReading int64          `json:"books_reading"`
	BooksWant    int64          `json:"books_want"`
	PagesToday   int            `json:"pages_today"`
	AvgPagesDay  float64        `json:"avg_pages_day"`
	Streak       int            `json:"streak"`
	CurrentBook  *entities.Book `json:"current_book"`
}

// Spending is the purchase-cost result: an all-time total plus twelve
// monthly buckets.
type Spending struct {
	Total   float64
	Monthly []MonthPoint
}

// BookTime is one book's reading duration for the distribution list.
type BookTime struct {
	Title string `json:"title"`
	Days  int    `json:"days"`
	Pages int    `json:"pages"`
}

// ReadingTime is the reading-duration payload.
type ReadingTime struct {
	AvgDays float64    `json:"avg_days"`
	Books   []BookTime `json:"books"`
}

// Service composes the statistics components over injected stores. Each call
// issues its own store queries; there is no transactional atomicity between
// them, which is acceptable for the append-only-ish daily data involved.
type Service struct {
	books BookStore
	diary DiaryStore
}

// NewService creates a statistics service.
func NewService(bookStore BookStore, diaryStore DiaryStore) *Service {
	return &Service{books: bookStore, diary: diaryStore}
}

// Overview assembles the dashboard numbers for one user.
func (s *Service) Overview(userID uint, today entities.Date) (*Overview, error) {
	total, read, reading, want, err := s.books.CountByStatus(userID)
	if err != nil {
		return nil, err
	}

	pagesToday, err := s.diary.PagesOnDate(userID, today)
	if err != nil {
		return nil, err
	}

	avgPages, err := s.avgPagesPerDay(userID, today)
	if err != nil {
		return nil, err
	}

	streak, err := CurrentStreak(s.diary, userID, today)
	if err != nil {
		return nil, err
	}

	current, err := s.books.Current(userID)
	if err != nil && !errors.Is(err, books.ErrBookNotFound) {
		return nil, err
	}

	return &Overview{
		TotalBooks:   total,
		BooksRead:    read,
		BooksReading: reading,
		BooksWant:    want,
		PagesToday:   pagesToday,
		AvgPagesDay:  avgPages,
		Streak:       streak,
		CurrentBook:  current,
	}, nil
}

// avgPagesPerDay averages pages_read over the did_read entries of the last
// 30 days. The divisor is the matching row count, not 30; no rows yields 0.
func (s *Service) avgPagesPerDay(userID uint, today entities.Date) (float64, error) {
	entries, err := s.diary.EntriesSince(userID, today.AddDays(-dailyWindowDays))
	if err != nil {
		return 0, err
	}

	var sum, count float64
	for _, e := range entries {
		if !e.DidRead {
			continue
		}
		sum += float64(e.PagesRead)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return round1(sum / count), nil
}

// PagesByDay returns the pages series for the trailing 30-day window.
func (s *Service) PagesByDay(userID uint, ref entities.Date) ([]DayPoint, error) {
	entries, err := s.diary.EntriesSince(userID, ref.AddDays(-dailyWindowDays))
	if err != nil {
		return nil, err
	}
	return aggregateDaily(diarySamples(entries), ref), nil
}

// PagesByMonth returns twelve monthly pages buckets, oldest first.
func (s *Service) PagesByMonth(userID uint, ref entities.Date) ([]MonthPoint, error) {
	entries, err := s.diary.AllEntries(userID)
	if err != nil {
		return nil, err
	}
	return aggregateMonthly(diarySamples(entries), ref), nil
}

// PagesByYear returns five yearly pages buckets, oldest first.
func (s *Service) PagesByYear(userID uint, ref entities.Date) ([]YearPoint, error) {
	entries, err := s.diary.AllEntries(userID)
	if err != nil {
		return nil, err
	}
	return aggregateYearly(diarySamples(entries), ref), nil
}

// Spending totals all purchase prices and buckets the dated ones monthly.
// Undated purchases count toward the total but no monthly bucket.
func (s *Service) Spending(userID uint, ref entities.Date) (*Spending, error) {
	purchases, err := s.books.Purchases(userID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, b := range purchases {
		if b.PurchasePrice != nil {
			total += *b.PurchasePrice
		}
	}

	return &Spending{
		Total:   total,
		Monthly: aggregateMonthly(purchaseSamples(purchases), ref),
	}, nil
}

// ReadingTime averages the days between start and end dates across finished
// books and returns the per-book distribution.
func (s *Service) ReadingTime(userID uint) (*ReadingTime, error) {
	finished, err := s.books.FinishedWindows(userID)
	if err != nil {
		return nil, err
	}

	result := &ReadingTime{Books: make([]BookTime, 0, len(finished))}
	if len(finished) == 0 {
		return result, nil
	}

	var totalDays int
	for _, b := range finished {
		days := int(b.EndDate.Sub(b.StartDate.Time).Hours() / 24)
		totalDays += days
		result.Books = append(result.Books, BookTime{
			Title: b.Title,
			Days:  days,
			Pages: b.Pages,
		})
	}
	result.AvgDays = round1(float64(totalDays) / float64(len(finished)))
	return result, nil
}

// Publishers returns the books-per-publisher distribution.
func (s *Service) Publishers(userID uint) ([]books.PublisherCount, error) {
	return s.books.PublisherCounts(userID)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
