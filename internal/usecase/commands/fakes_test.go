//go:build unit

package commands_test

import (
	"context"
	"time"

	"biblio-api/internal/domain/book"
	"biblio-api/internal/domain/loan"
	"biblio-api/internal/domain/reservation"
	"biblio-api/internal/domain/user"
	"biblio-api/internal/infra"
	"biblio-api/internal/usecase/queries"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory stand-in for the postgres unit of work. State mutations follow
// the same conditional semantics as the SQL implementations so the command
// tests exercise real race outcomes.
type fakeState struct {
	books        map[uuid.UUID]*shared.BookSnapshot
	loans        map[uuid.UUID]*shared.LoanSnapshot
	reservations map[uuid.UUID]*shared.ReservationSnapshot
	users        map[uuid.UUID]*userRecord
}

type userRecord struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

func newFakeState() *fakeState {
	return &fakeState{
		books:        make(map[uuid.UUID]*shared.BookSnapshot),
		loans:        make(map[uuid.UUID]*shared.LoanSnapshot),
		reservations: make(map[uuid.UUID]*shared.ReservationSnapshot),
		users:        make(map[uuid.UUID]*userRecord),
	}
}

func (s *fakeState) addBook(title string, total, available int) uuid.UUID {
	id := uuid.New()
	s.books[id] = &shared.BookSnapshot{
		ID:              id,
		Title:           title,
		Author:          "Author",
		ISBN:            "9780000000000",
		TotalCopies:     total,
		AvailableCopies: available,
	}
	return id
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

type fakeUoW struct {
	state *fakeState
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{state: u.state})
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{state: u.state}
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) Books() shared.BookRepository               { return &fakeBookRepo{state: t.state} }
func (t *fakeTx) Loans() shared.LoanRepository               { return &fakeLoanRepo{state: t.state} }
func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{state: t.state} }
func (t *fakeTx) Users() shared.UserRepository               { return &fakeUserRepo{state: t.state} }
func (t *fakeTx) Reads() shared.CommandReads                 { return &fakeReads{state: t.state} }

type fakeReads struct {
	state *fakeState
}

func (r *fakeReads) BookByID(_ context.Context, id uuid.UUID) (*shared.BookSnapshot, error) {
	b, ok := r.state.books[id]
	if !ok {
		return nil, notFoundErr("book not found")
	}
	cp := *b
	return &cp, nil
}

func (r *fakeReads) LoanByID(_ context.Context, id uuid.UUID) (*shared.LoanSnapshot, error) {
	l, ok := r.state.loans[id]
	if !ok {
		return nil, notFoundErr("loan not found")
	}
	cp := *l
	return &cp, nil
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	res, ok := r.state.reservations[id]
	if !ok {
		return nil, notFoundErr("reservation not found")
	}
	cp := *res
	return &cp, nil
}

func (r *fakeReads) OpenLoanCount(_ context.Context, bookID uuid.UUID) (int, error) {
	count := 0
	for _, l := range r.state.loans {
		if l.BookID == bookID && l.ReturnedAt == nil {
			count++
		}
	}
	return count, nil
}

type fakeBookRepo struct {
	state *fakeState
}

func (r *fakeBookRepo) Create(_ context.Context, b *book.Book) (uuid.UUID, error) {
	for _, existing := range r.state.books {
		if existing.ISBN == b.ISBN().Value() {
			return uuid.Nil, infra.WrapRepoErr("duplicate isbn", nil, infra.KindDuplicateKey)
		}
	}
	r.state.books[b.ID()] = &shared.BookSnapshot{
		ID:              b.ID(),
		Title:           b.Title(),
		Author:          b.Author(),
		ISBN:            b.ISBN().Value(),
		Genre:           b.Genre(),
		Summary:         b.Summary(),
		CoverURL:        b.CoverURL(),
		TotalCopies:     b.Copies().Total(),
		AvailableCopies: b.Copies().Available(),
	}
	return b.ID(), nil
}

func (r *fakeBookRepo) Update(_ context.Context, id uuid.UUID, params shared.UpdateBookParams) error {
	b, ok := r.state.books[id]
	if !ok {
		return notFoundErr("book not found")
	}
	b.Title = params.Title
	b.Author = params.Author
	b.ISBN = params.ISBN
	b.Genre = params.Genre
	b.Summary = params.Summary
	b.CoverURL = params.CoverURL
	b.TotalCopies = params.TotalCopies
	b.AvailableCopies = params.AvailableCopies
	return nil
}

func (r *fakeBookRepo) ClaimCopy(_ context.Context, id uuid.UUID) (bool, error) {
	b, ok := r.state.books[id]
	if !ok || b.AvailableCopies <= 0 {
		return false, nil
	}
	b.AvailableCopies--
	return true, nil
}

func (r *fakeBookRepo) ReleaseCopy(_ context.Context, id uuid.UUID) error {
	b, ok := r.state.books[id]
	if !ok {
		return notFoundErr("book not found")
	}
	if b.AvailableCopies < b.TotalCopies {
		b.AvailableCopies++
	}
	return nil
}

func (r *fakeBookRepo) SetCover(_ context.Context, id uuid.UUID, _ []byte, _ string) error {
	if _, ok := r.state.books[id]; !ok {
		return notFoundErr("book not found")
	}
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.books[id]; !ok {
		return notFoundErr("book not found")
	}
	for _, l := range r.state.loans {
		if l.BookID == id {
			return infra.WrapRepoErr("book referenced by loans", nil, infra.KindForeignKeyViolated)
		}
	}
	delete(r.state.books, id)
	return nil
}

type fakeLoanRepo struct {
	state *fakeState
}

func (r *fakeLoanRepo) Create(_ context.Context, l *loan.Loan) (uuid.UUID, error) {
	if _, ok := r.state.books[l.BookID()]; !ok {
		return uuid.Nil, infra.WrapRepoErr("unknown book", nil, infra.KindForeignKeyViolated)
	}
	r.state.loans[l.ID()] = &shared.LoanSnapshot{
		ID:         l.ID(),
		UserID:     l.UserID(),
		BookID:     l.BookID(),
		BorrowedAt: l.BorrowedAt(),
		DueAt:      l.DueAt(),
	}
	return l.ID(), nil
}

func (r *fakeLoanRepo) Close(_ context.Context, id uuid.UUID, returnedAt time.Time, fineAmount int64) (bool, error) {
	l, ok := r.state.loans[id]
	if !ok || l.ReturnedAt != nil {
		return false, nil
	}
	at := returnedAt
	l.ReturnedAt = &at
	l.FineAmount = fineAmount
	return true, nil
}

func (r *fakeLoanRepo) AdminUpdate(_ context.Context, id uuid.UUID, patch shared.AdminLoanPatch) error {
	l, ok := r.state.loans[id]
	if !ok {
		return notFoundErr("loan not found")
	}
	if patch.DueAt != nil {
		l.DueAt = *patch.DueAt
	}
	if patch.ReturnedAt != nil {
		at := *patch.ReturnedAt
		l.ReturnedAt = &at
	}
	return nil
}

type fakeReservationRepo struct {
	state *fakeState
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) (uuid.UUID, error) {
	if _, ok := r.state.books[res.BookID()]; !ok {
		return uuid.Nil, infra.WrapRepoErr("unknown book", nil, infra.KindForeignKeyViolated)
	}
	r.state.reservations[res.ID()] = &shared.ReservationSnapshot{
		ID:        res.ID(),
		UserID:    res.UserID(),
		BookID:    res.BookID(),
		ExpiresAt: res.ExpiresAt(),
	}
	return res.ID(), nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.reservations[id]; !ok {
		return notFoundErr("reservation not found")
	}
	delete(r.state.reservations, id)
	return nil
}

type fakeUserRepo struct {
	state *fakeState
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) (uuid.UUID, error) {
	for _, existing := range r.state.users {
		if existing.Email == u.Email().Value() {
			return uuid.Nil, infra.WrapRepoErr("duplicate email", nil, infra.KindDuplicateKey)
		}
	}
	r.state.users[u.ID()] = &userRecord{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
	}
	return u.ID(), nil
}

// Read-side fakes backed by the same state.
type fakeBookReadStore struct {
	state *fakeState
}

func (s *fakeBookReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookView, error) {
	b, ok := s.state.books[id]
	if !ok {
		return nil, notFoundErr("book not found")
	}
	return bookView(b), nil
}

func (s *fakeBookReadStore) Search(_ context.Context, _ queries.BookSearch) ([]*queries.BookView, error) {
	var views []*queries.BookView
	for _, b := range s.state.books {
		views = append(views, bookView(b))
	}
	return views, nil
}

func (s *fakeBookReadStore) Count(_ context.Context, _ queries.BookSearch) (int64, error) {
	return int64(len(s.state.books)), nil
}

func (s *fakeBookReadStore) FindCover(_ context.Context, _ uuid.UUID) (*queries.CoverView, error) {
	return nil, notFoundErr("cover not found")
}

func bookView(b *shared.BookSnapshot) *queries.BookView {
	return &queries.BookView{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Genre:           b.Genre,
		Summary:         b.Summary,
		CoverURL:        b.CoverURL,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
}

type fakeLoanReadStore struct {
	state *fakeState
}

func (s *fakeLoanReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.LoanView, error) {
	l, ok := s.state.loans[id]
	if !ok {
		return nil, notFoundErr("loan not found")
	}
	return s.loanView(l), nil
}

func (s *fakeLoanReadStore) FindByUserID(_ context.Context, userID uuid.UUID) ([]*queries.LoanView, error) {
	var views []*queries.LoanView
	for _, l := range s.state.loans {
		if l.UserID == userID {
			views = append(views, s.loanView(l))
		}
	}
	return views, nil
}

func (s *fakeLoanReadStore) FindAll(_ context.Context, overdueOnly bool, now time.Time) ([]*queries.AdminLoanView, error) {
	var views []*queries.AdminLoanView
	for _, l := range s.state.loans {
		if overdueOnly && (l.ReturnedAt != nil || !l.DueAt.Before(now)) {
			continue
		}
		views = append(views, &queries.AdminLoanView{LoanView: *s.loanView(l)})
	}
	return views, nil
}

func (s *fakeLoanReadStore) MinOpenDueByBookIDs(_ context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]time.Time, error) {
	result := make(map[uuid.UUID]time.Time)
	for _, id := range bookIDs {
		for _, l := range s.state.loans {
			if l.BookID != id || l.ReturnedAt != nil {
				continue
			}
			if existing, ok := result[id]; !ok || l.DueAt.Before(existing) {
				result[id] = l.DueAt
			}
		}
	}
	return result, nil
}

func (s *fakeLoanReadStore) Counts(_ context.Context, now time.Time) (queries.LoanCounts, error) {
	var c queries.LoanCounts
	for _, l := range s.state.loans {
		c.Total++
		if l.ReturnedAt == nil {
			c.Open++
			if l.DueAt.Before(now) {
				c.Overdue++
			}
		}
	}
	return c, nil
}

func (s *fakeLoanReadStore) loanView(l *shared.LoanSnapshot) *queries.LoanView {
	view := &queries.LoanView{
		ID:         l.ID,
		UserID:     l.UserID,
		BorrowedAt: l.BorrowedAt,
		DueAt:      l.DueAt,
		ReturnedAt: l.ReturnedAt,
		FineAmount: l.FineAmount,
	}
	if b, ok := s.state.books[l.BookID]; ok {
		view.Book = queries.BookRef{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
	} else {
		view.Book = queries.BookRef{ID: l.BookID}
	}
	return view
}

type fakeReservationReadStore struct {
	state *fakeState
}

func (s *fakeReservationReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	res, ok := s.state.reservations[id]
	if !ok {
		return nil, notFoundErr("reservation not found")
	}
	return s.reservationView(res), nil
}

func (s *fakeReservationReadStore) FindByUserID(_ context.Context, userID uuid.UUID) ([]*queries.ReservationView, error) {
	var views []*queries.ReservationView
	for _, res := range s.state.reservations {
		if res.UserID == userID {
			views = append(views, s.reservationView(res))
		}
	}
	return views, nil
}

func (s *fakeReservationReadStore) FindAll(_ context.Context) ([]*queries.AdminReservationView, error) {
	var views []*queries.AdminReservationView
	for _, res := range s.state.reservations {
		views = append(views, &queries.AdminReservationView{ReservationView: *s.reservationView(res)})
	}
	return views, nil
}

func (s *fakeReservationReadStore) reservationView(res *shared.ReservationSnapshot) *queries.ReservationView {
	view := &queries.ReservationView{
		ID:        res.ID,
		UserID:    res.UserID,
		ExpiresAt: res.ExpiresAt,
	}
	if b, ok := s.state.books[res.BookID]; ok {
		view.Book = queries.BookRef{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
	} else {
		view.Book = queries.BookRef{ID: res.BookID}
	}
	return view
}

type fakeUserReadStore struct {
	state *fakeState
}

func (s *fakeUserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	u, ok := s.state.users[id]
	if !ok {
		return nil, notFoundErr("user not found")
	}
	return userView(u), nil
}

func (s *fakeUserReadStore) FindByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	for _, u := range s.state.users {
		if u.Email == email {
			return userView(u), u.PasswordHash, nil
		}
	}
	return nil, "", notFoundErr("user not found")
}

func (s *fakeUserReadStore) FindAll(_ context.Context) ([]*queries.AuthorizedUserView, error) {
	var views []*queries.AuthorizedUserView
	for _, u := range s.state.users {
		views = append(views, userView(u))
	}
	return views, nil
}

func (s *fakeUserReadStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.state.users)), nil
}

func userView(u *userRecord) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
