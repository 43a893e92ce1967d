package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"

	"staybook/internal/domain"
)

const errDupEntry = 1062

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

type Repo struct{ db *sql.DB }

var (
	_ domain.DestinationRepository = (*Repo)(nil)
	_ domain.BookingRepository     = (*Repo)(nil)
	_ domain.ProfileRepository     = (*Repo)(nil)
	_ domain.UserRepository        = (*Repo)(nil)
)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- destinations ----

func (r *Repo) UpsertDestinations(ctx context.Context, ds []domain.Destination) error {
	if len(ds) == 0 {
		return nil
	}
	values := make([]string, 0, len(ds))
	args := make([]any, 0, len(ds)*10)
	for _, d := range ds {
		amen, err := json.Marshal(d.Amenities)
		if err != nil {
			return err
		}
		if d.Amenities == nil {
			amen = []byte("[]")
		}
		var src []byte
		if d.SourceData != nil {
			if src, err = json.Marshal(d.SourceData); err != nil {
				return err
			}
		}
		values = append(values, "(?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			d.ID, d.Name, d.Location, d.Description,
			d.PricePerNight, d.Rating, d.ImageURL,
			string(amen), d.MaxGuests, valJSON(src),
		)
	}
	_, err := r.db.ExecContext(ctx, upsertDestinationsPrefix+strings.Join(values, ",")+upsertDestinationsOnDup, args...)
	return err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanDestination(s rowScanner) (domain.Destination, error) {
	var d domain.Destination
	var amen, src []byte
	if err := s.Scan(&d.ID, &d.Name, &d.Location, &d.Description, &d.PricePerNight, &d.Rating,
		&d.ImageURL, &amen, &d.MaxGuests, &src, &d.CreatedAt); err != nil {
		return domain.Destination{}, err
	}
	if len(amen) > 0 {
		if err := json.Unmarshal(amen, &d.Amenities); err != nil {
			return domain.Destination{}, fmt.Errorf("destination %s amenities: %w", d.ID, err)
		}
	}
	if len(src) > 0 {
		var o domain.HotelOffer
		if err := json.Unmarshal(src, &o); err == nil {
			d.SourceData = &o
		}
	}
	return d, nil
}

func (r *Repo) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	d, err := scanDestination(r.db.QueryRowContext(ctx, getDestinationSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Destination{}, domain.ErrNotFound
	}
	return d, err
}

func (r *Repo) ListDestinations(ctx context.Context, limit int) ([]domain.Destination, error) {
	q, args := listDestinationsSQL, []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ---- bookings ----

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID, b.UserID, b.DestinationID,
		b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"),
		b.Guests, b.TotalPrice, string(b.Status), b.CreatedAt,
	)
	if isDuplicate(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *Repo) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		var st string
		if err := rows.Scan(&b.ID, &b.UserID, &b.DestinationID, &b.CheckIn, &b.CheckOut,
			&b.Guests, &b.TotalPrice, &st, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Status = domain.BookingStatus(st)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, userID, id string, st domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(st), id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, bookingExistsSQL, id, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// ---- profiles & users ----

func (r *Repo) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	var p domain.Profile
	var first, last, phone sql.NullString
	err := r.db.QueryRowContext(ctx, getProfileSQL, id).Scan(&p.ID, &first, &last, &p.Email, &phone, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Profile{}, err
	}
	p.FirstName, p.LastName, p.Phone = strPtr(first), strPtr(last), strPtr(phone)
	return p, nil
}

func (r *Repo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, upsertProfileSQL, p.ID, valStr(p.FirstName), valStr(p.LastName), p.Email, valStr(p.Phone))
	return err
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if isDuplicate(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, getUserByEmailSQL, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	return u, err
}
