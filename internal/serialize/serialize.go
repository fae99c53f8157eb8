package serialize

import "winsbygroup.com/reviewserver/internal/models"

// Object is the serialized form of one entity
type Object map[string]any

// Customer renders c as {id, name, items}. Items are rendered without their
// reviews. A nil customer renders as nil.
func Customer(c *models.Customer) Object {
	if c == nil {
		return nil
	}
	return customer(c, Path{KindCustomer})
}

// Item renders i as {id, name, price, reviews}. Reviews are rendered without
// their item.
func Item(i *models.Item) Object {
	if i == nil {
		return nil
	}
	return item(i, Path{KindItem})
}

// Review renders r as {id, comment, customer_id, item_id, customer, item}.
// An unset customer or item renders as null.
func Review(r *models.Review) Object {
	if r == nil {
		return nil
	}
	return review(r, Path{KindReview})
}

func Customers(cs []*models.Customer) []Object {
	out := make([]Object, 0, len(cs))
	for _, c := range cs {
		out = append(out, Customer(c))
	}
	return out
}

func Items(is []*models.Item) []Object {
	out := make([]Object, 0, len(is))
	for _, i := range is {
		out = append(out, Item(i))
	}
	return out
}

func Reviews(rs []*models.Review) []Object {
	out := make([]Object, 0, len(rs))
	for _, r := range rs {
		out = append(out, Review(r))
	}
	return out
}

func customer(c *models.Customer, path Path) Object {
	out := Object{
		"id":   c.ID,
		"name": c.Name,
	}
	if !Suppressed(path, CustomerItems) {
		next := path.Extend(CustomerItems)
		items := []Object{}
		for _, i := range c.Items() {
			items = append(items, item(i, next))
		}
		out[CustomerItems.Name] = items
	}
	return out
}

func item(i *models.Item, path Path) Object {
	out := Object{
		"id":    i.ID,
		"name":  i.Name,
		"price": i.Price,
	}
	if !Suppressed(path, ItemReviews) {
		next := path.Extend(ItemReviews)
		reviews := []Object{}
		for _, r := range i.Reviews {
			reviews = append(reviews, review(r, next))
		}
		out[ItemReviews.Name] = reviews
	}
	return out
}

func review(r *models.Review, path Path) Object {
	// the foreign keys are scalars and always present
	out := Object{
		"id":          r.ID,
		"comment":     r.Comment,
		"customer_id": r.CustomerID,
		"item_id":     r.ItemID,
	}
	if !Suppressed(path, ReviewCustomer) {
		if r.Customer == nil {
			out[ReviewCustomer.Name] = nil
		} else {
			out[ReviewCustomer.Name] = customer(r.Customer, path.Extend(ReviewCustomer))
		}
	}
	if !Suppressed(path, ReviewItem) {
		if r.Item == nil {
			out[ReviewItem.Name] = nil
		} else {
			out[ReviewItem.Name] = item(r.Item, path.Extend(ReviewItem))
		}
	}
	return out
}
