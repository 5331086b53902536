package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"review_analyzer/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// InsertReview stores r and returns it with the generated id. A zero
// CreatedAt is filled in by the database.
func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ProductName,
		rv.ReviewText,
		string(rv.Sentiment),
		rv.SentimentScore,
		valStr(rv.KeyPoints),
		valTime(rv.CreatedAt),
	)
	if err != nil {
		return domain.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Review{}, fmt.Errorf("last insert id: %w", err)
	}
	if rv.CreatedAt.IsZero() {
		return r.GetReview(ctx, id)
	}
	rv.ID = id
	rv.CreatedAt = rv.CreatedAt.UTC()
	return rv, nil
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

// ListReviews returns every review, newest first. The result is never nil.
func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanReview(s scanner) (domain.Review, error) {
	var (
		rv        domain.Review
		sentiment string
		keyPoints sql.NullString
		createdAt sql.NullTime
	)
	if err := s.Scan(
		&rv.ID,
		&rv.ProductName,
		&rv.ReviewText,
		&sentiment,
		&rv.SentimentScore,
		&keyPoints,
		&createdAt,
	); err != nil {
		return domain.Review{}, err
	}
	rv.Sentiment = domain.Sentiment(sentiment)
	if keyPoints.Valid {
		rv.KeyPoints = keyPoints.String
	}
	if createdAt.Valid {
		rv.CreatedAt = createdAt.Time.UTC()
	}
	return rv, nil
}
