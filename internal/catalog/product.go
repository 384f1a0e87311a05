// Package catalog defines the product records shared by the list engine, the
// product API client and the exporters.
package catalog

import "time"

// Category is the nested category object the product API embeds in each product.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}

// Product is one catalog record. The list engine only looks at ID, Title and
// Price; everything else is carried through unchanged.
type Product struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug,omitempty"`
	Price       float64    `json:"price"`
	Description string     `json:"description"`
	Category    *Category  `json:"category,omitempty"`
	Images      []string   `json:"images"`
	CreationAt  *time.Time `json:"creationAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// CategoryName returns the category name or "" when the product has none.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// Clone returns a copy that shares no mutable state with p.
func (p Product) Clone() Product {
	out := p
	if p.Category != nil {
		c := *p.Category
		out.Category = &c
	}
	if p.Images != nil {
		out.Images = append([]string(nil), p.Images...)
	}
	if p.CreationAt != nil {
		t := *p.CreationAt
		out.CreationAt = &t
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// Patch is a partial product. A nil field is absent; a non-nil field replaces
// the original value when applied. Decoding an API response into a Patch keeps
// exactly the fields the server sent.
type Patch struct {
	ID          *int       `json:"id,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Images      *[]string  `json:"images,omitempty"`
	CreationAt  *time.Time `json:"creationAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (pt Patch) IsEmpty() bool {
	return pt.ID == nil && pt.Title == nil && pt.Slug == nil && pt.Price == nil &&
		pt.Description == nil && pt.Category == nil && pt.Images == nil &&
		pt.CreationAt == nil && pt.UpdatedAt == nil
}

// Apply returns a shallow merge of p and pt: fields present in pt win, all
// other fields of p survive. The identity of the record never changes, so an
// ID in the patch is ignored.
func (p Product) Apply(pt Patch) Product {
	out := p.Clone()
	if pt.Title != nil {
		out.Title = *pt.Title
	}
	if pt.Slug != nil {
		out.Slug = *pt.Slug
	}
	if pt.Price != nil {
		out.Price = *pt.Price
	}
	if pt.Description != nil {
		out.Description = *pt.Description
	}
	if pt.Category != nil {
		c := *pt.Category
		out.Category = &c
	}
	if pt.Images != nil {
		out.Images = append([]string(nil), (*pt.Images)...)
	}
	if pt.CreationAt != nil {
		t := *pt.CreationAt
		out.CreationAt = &t
	}
	if pt.UpdatedAt != nil {
		t := *pt.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// PatchFromProduct builds a patch carrying every field of p.
func PatchFromProduct(p Product) Patch {
	p = p.Clone()
	pt := Patch{
		ID:          &p.ID,
		Title:       &p.Title,
		Slug:        &p.Slug,
		Price:       &p.Price,
		Description: &p.Description,
		Category:    p.Category,
		CreationAt:  p.CreationAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Images != nil {
		pt.Images = &p.Images
	}
	return pt
}
