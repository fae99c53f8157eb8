package customer

const getAllCustomersSQL = `
SELECT id, name
FROM customers
ORDER BY name, id
`

const getCustomerSQL = `
SELECT id, name
FROM customers
WHERE id = ?
`

const getCustomersByIDSQL = `
SELECT id, name
FROM customers
WHERE id IN (?)
ORDER BY id
`

const createCustomerSQL = `
INSERT INTO customers (name) VALUES (?)
`

const updateCustomerSQL = `
UPDATE customers
SET name = ?
WHERE id = ?
`

const deleteCustomerSQL = `
DELETE FROM customers
WHERE id = ?
`

const customerExistsSQL = `
SELECT EXISTS(
    SELECT 1 FROM customers WHERE id = ?
)
`

// Items reachable through the customer's reviews, each once, in the order
// the customer first reviewed them.
const getCustomerItemsSQL = `
SELECT i.id, i.name, i.price
FROM items i
JOIN reviews r ON r.item_id = i.id
WHERE r.customer_id = ?
GROUP BY i.id, i.name, i.price
ORDER BY MIN(r.id)
`
