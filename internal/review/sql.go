package review

const reviewColumns = `id, comment, customer_id, item_id`

const getAllReviewsSQL = `
SELECT ` + reviewColumns + `
FROM reviews
ORDER BY id
`

const getReviewSQL = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE id = ?
`

const getReviewsForCustomerSQL = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE customer_id = ?
ORDER BY id
`

const getReviewsForItemSQL = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE item_id = ?
ORDER BY id
`

const createReviewSQL = `
INSERT INTO reviews (comment, customer_id, item_id) VALUES (?, ?, ?)
`

const updateReviewSQL = `
UPDATE reviews
SET comment = ?, customer_id = ?, item_id = ?
WHERE id = ?
`

const deleteReviewSQL = `
DELETE FROM reviews
WHERE id = ?
`

const parentsExistSQL = `
SELECT
    EXISTS(SELECT 1 FROM customers WHERE id = ?) AS customer_exists,
    EXISTS(SELECT 1 FROM items WHERE id = ?) AS item_exists
`
