package item

const getAllItemsSQL = `
SELECT id, name, price
FROM items
ORDER BY name, id
`

const getItemSQL = `
SELECT id, name, price
FROM items
WHERE id = ?
`

const getItemsByIDSQL = `
SELECT id, name, price
FROM items
WHERE id IN (?)
ORDER BY id
`

const createItemSQL = `
INSERT INTO items (name, price) VALUES (?, ?)
`

const updateItemSQL = `
UPDATE items
SET name = ?, price = ?
WHERE id = ?
`

const deleteItemSQL = `
DELETE FROM items
WHERE id = ?
`

const itemExistsSQL = `
SELECT EXISTS(
    SELECT 1 FROM items WHERE id = ?
)
`
