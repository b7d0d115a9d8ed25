// Package productjson decodes product records from the loosely typed JSON
// shapes served by catalog backends and stored in seed files.
package productjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/ongsearch/internal/domain/product"
)

// ErrUnknownEnvelope means the payload is not one of the recognised list shapes.
var ErrUnknownEnvelope = errors.New("unrecognised product list envelope")

// Page is one decoded list response.
type Page struct {
	Products   []product.Product
	Skipped    int // records without id or name
	TotalPages int // 0 when the envelope carries no paging info
}

// DecodeList accepts a bare array, {"data":[...]}, {"products":[...]},
// {"items":[...]} or {"data":{"products"|"items":[...]}}.
func DecodeList(data []byte) (Page, error) {
	items, meta, err := unwrap(data)
	if err != nil {
		return Page{}, err
	}

	page := Page{Products: make([]product.Product, 0, len(items)), TotalPages: totalPages(meta)}
	for _, raw := range items {
		p, err := DecodeProduct(raw)
		if err != nil {
			page.Skipped++
			continue
		}
		page.Products = append(page.Products, p)
	}
	return page, nil
}

// DecodeProduct decodes a single record. Keys may be snake_case or camelCase.
func DecodeProduct(raw json.RawMessage) (product.Product, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return product.Product{}, fmt.Errorf("decode product: %w", err)
	}

	a := product.Attrs{
		ID:             str(pick(m, "id", "_id")),
		Name:           str(pick(m, "name")),
		Description:    str(pick(m, "description")),
		Price:          num(pick(m, "price")),
		Category:       category(pick(m, "category", "category_name", "categoryName")),
		CategoryID:     int(num(pick(m, "category_id", "categoryId"))),
		ImageURL:       str(pick(m, "image_url", "imageUrl")),
		StockQty:       int(num(pick(m, "stock_qty", "stockQty"))),
		WeightGrams:    int(num(pick(m, "weight_grams", "weightGrams"))),
		OrganizationID: str(pick(m, "organization_id", "organizationId")),
		CreatedAt:      timestamp(pick(m, "created_at", "createdAt")),
	}
	if u := timestamp(pick(m, "updated_at", "updatedAt")); !u.IsZero() {
		a.UpdatedAt = &u
	}

	if a.ID == "" || a.Name == "" {
		return product.Product{}, errors.New("decode product: id and name are required")
	}
	return product.Reconstruct(a), nil
}

func unwrap(data []byte) ([]json.RawMessage, map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil, ErrUnknownEnvelope
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, nil, fmt.Errorf("decode envelope: %w", err)
	}

	for _, key := range []string{"data", "products", "items"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			var items []json.RawMessage
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, nil, fmt.Errorf("decode %s: %w", key, err)
			}
			return items, obj, nil
		}
		if key == "data" && len(raw) > 0 && raw[0] == '{' {
			// Nested {"data":{"products":[...]}}; paging info sits next to the list.
			items, inner, err := unwrap(raw)
			if err == nil {
				return items, inner, nil
			}
		}
	}
	return nil, nil, ErrUnknownEnvelope
}

func totalPages(meta map[string]json.RawMessage) int {
	if meta == nil {
		return 0
	}
	if n := int(num(pick(meta, "totalPages", "total_pages"))); n > 0 {
		return n
	}
	if raw, ok := meta["pagination"]; ok {
		var inner map[string]json.RawMessage
		if json.Unmarshal(raw, &inner) == nil {
			return int(num(pick(inner, "totalPages", "total_pages")))
		}
	}
	return 0
}

func pick(m map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := m[k]; ok && string(v) != "null" {
			return v
		}
	}
	return nil
}

func str(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// num reads a JSON number or a numeric string ("12.50", "12,50").
func num(raw json.RawMessage) float64 {
	if raw == nil {
		return 0
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	s := strings.TrimSpace(str(raw))
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, _ = strconv.ParseFloat(s, 64)
	return f
}

// category accepts either a name or an object with a name.
func category(raw json.RawMessage) string {
	if s := str(raw); s != "" {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if raw != nil && json.Unmarshal(raw, &obj) == nil {
		return obj.Name
	}
	return ""
}

func timestamp(raw json.RawMessage) time.Time {
	s := str(raw)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
