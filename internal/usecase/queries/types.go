package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookView struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Genre           string    `json:"genre"`
	Summary         string    `json:"summary"`
	CoverURL        string    `json:"cover_url"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookPage struct {
	Items      []*BookView `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

type CoverView struct {
	Data        []byte
	ContentType string
}

// BookRef is the joined book summary embedded in loan and reservation views.
type BookRef struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	ISBN     string    `json:"isbn"`
	CoverURL string    `json:"cover_url"`
}

type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type LoanView struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Book       BookRef    `json:"book"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	FineAmount int64      `json:"fine_amount"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AdminLoanView struct {
	LoanView
	User UserRef `json:"user"`
}

type ReservationView struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Book       BookRef    `json:"book"`
	ReservedAt time.Time  `json:"reserved_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Notified   bool       `json:"notified"`
	NextDueAt  *time.Time `json:"next_due_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AdminReservationView struct {
	ReservationView
	User UserRef `json:"user"`
}

type AuthorizedUserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type LoanCounts struct {
	Total   int64
	Open    int64
	Overdue int64
}

type StatsView struct {
	Users        int64 `json:"users"`
	Books        int64 `json:"books"`
	Loans        int64 `json:"loans"`
	OpenLoans    int64 `json:"open_loans"`
	OverdueLoans int64 `json:"overdue_loans"`
}

type UserHistoryView struct {
	Loans        []*LoanView        `json:"loans"`
	Reservations []*ReservationView `json:"reservations"`
}

// BookSearch is the normalized catalog filter handed to the read store.
type BookSearch struct {
	Text   string
	Author string
	Genre  string
	Limit  int
	Offset int
}

// Read store ports implemented by internal/infra/readstore.
type BookReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	Search(ctx context.Context, f BookSearch) ([]*BookView, error)
	Count(ctx context.Context, f BookSearch) (int64, error)
	FindCover(ctx context.Context, id uuid.UUID) (*CoverView, error)
}

type LoanReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
	FindAll(ctx context.Context, overdueOnly bool, now time.Time) ([]*AdminLoanView, error)
	MinOpenDueByBookIDs(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]time.Time, error)
	Counts(ctx context.Context, now time.Time) (LoanCounts, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
	FindAll(ctx context.Context) ([]*AdminReservationView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, string, error)
	FindAll(ctx context.Context) ([]*AuthorizedUserView, error)
	Count(ctx context.Context) (int64, error)
}
