package mysql

const insertReviewSQL = `
INSERT INTO reviews
  (product_name, review_text, sentiment, sentiment_score, key_points, created_at)
VALUES
  (?, ?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP(6)))
`

// Newest first; matches idx_reviews_created.
const listReviewsSQL = `
SELECT id, product_name, review_text, sentiment, sentiment_score, key_points, created_at
FROM reviews
ORDER BY created_at DESC, id DESC
`

const getReviewSQL = `
SELECT id, product_name, review_text, sentiment, sentiment_score, key_points, created_at
FROM reviews
WHERE id = ?
`
