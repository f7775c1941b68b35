package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/precivox/backend/internal/domain"
)

// TransformFunc maps a raw source payload onto canonical product records.
// It returns the products, the number of malformed records skipped, and a
// non-nil error only when the top-level payload shape is wrong entirely.
type TransformFunc func(payload []byte) ([]domain.Product, int, error)

// transforms is the dispatch table keyed by source kind. Keeping it as a
// lookup table keeps the layer exhaustively checkable.
var transforms = map[domain.SourceKind]TransformFunc{
	domain.SourceKindAPI:  transformAPI,
	domain.SourceKindJSON: transformJSON,
	domain.SourceKindCSV:  transformCSV,
}

// KnownKind reports whether a transform exists for the given kind.
func KnownKind(kind domain.SourceKind) bool {
	_, ok := transforms[kind]
	return ok
}

// Transform applies the transform for kind and stamps every record with the
// caller's market identifier; the market in the raw payload is never
// trusted. Product IDs are prefixed with the market to stay globally unique
// within the aggregated feed.
func Transform(kind domain.SourceKind, payload []byte, marketID string) ([]domain.Product, int, error) {
	fn, ok := transforms[kind]
	if !ok {
		return nil, 0, fmt.Errorf("%w: no transform for kind %q", domain.ErrInvalidSource, kind)
	}
	products, skipped, err := fn(payload)
	if err != nil {
		return nil, skipped, err
	}
	for i := range products {
		products[i].MarketID = marketID
		products[i].ID = marketID + "-" + products[i].ID
	}
	return products, skipped, nil
}

// apiEnvelope is the remote-API payload shape.
type apiEnvelope struct {
	Data []apiRecord `json:"data"`
}

type apiRecord struct {
	Codigo             any      `json:"codigo"`
	Descricao          string   `json:"descricao"`
	Valor              float64  `json:"valor"`
	Categoria          string   `json:"categoria"`
	Subcategoria       string   `json:"subcategoria"`
	Fabricante         string   `json:"fabricante"`
	Disponivel         *bool    `json:"disponivel"`
	Promocional        bool     `json:"promocional"`
	PercentualDesconto float64  `json:"percentualDesconto"`
	ValorOriginal      float64  `json:"valorOriginal"`
	ValidadePromocao   string   `json:"validadePromocao"`
	Nota               float64  `json:"nota"`
	Tags               []string `json:"tags"`
}

func transformAPI(payload []byte) ([]domain.Product, int, error) {
	var envelope apiEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrPayloadMalformed, err)
	}
	if envelope.Data == nil {
		return nil, 0, fmt.Errorf("%w: missing data array", domain.ErrPayloadMalformed)
	}

	products := make([]domain.Product, 0, len(envelope.Data))
	skipped := 0
	for _, record := range envelope.Data {
		product := domain.Product{
			ID:          coerceID(record.Codigo),
			Name:        strings.TrimSpace(record.Descricao),
			Price:       record.Valor,
			Category:    fallbackCategory(record.Categoria),
			Subcategory: record.Subcategoria,
			Brand:       record.Fabricante,
			Available:   record.Disponivel == nil || *record.Disponivel,
			Rating:      record.Nota,
			Tags:        record.Tags,
		}
		if record.Promocional {
			product.Promotion = &domain.Promotion{
				Discount:      record.PercentualDesconto,
				OriginalPrice: record.ValorOriginal,
				ValidUntil:    record.ValidadePromocao,
			}
		}
		if !validRecord(product) {
			skipped++
			continue
		}
		products = append(products, product)
	}
	return products, skipped, nil
}

// jsonDocument is the static-document payload shape.
type jsonDocument struct {
	Produtos []jsonRecord `json:"produtos"`
}

type jsonRecord struct {
	ID           any             `json:"id"`
	Nome         string          `json:"nome"`
	Preco        float64         `json:"preco"`
	Categoria    string          `json:"categoria"`
	Subcategoria string          `json:"subcategoria"`
	Marca        string          `json:"marca"`
	Disponivel   *bool           `json:"disponivel"`
	Promocao     json.RawMessage `json:"promocao"`
	Avaliacao    float64         `json:"avaliacao"`
	Tags         []string        `json:"tags"`
}

type jsonPromotion struct {
	Desconto      float64 `json:"desconto"`
	PrecoOriginal float64 `json:"precoOriginal"`
	ValidoAte     string  `json:"validoAte"`
}

func transformJSON(payload []byte) ([]domain.Product, int, error) {
	var document jsonDocument
	if err := json.Unmarshal(payload, &document); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrPayloadMalformed, err)
	}
	if document.Produtos == nil {
		return nil, 0, fmt.Errorf("%w: missing produtos array", domain.ErrPayloadMalformed)
	}

	products := make([]domain.Product, 0, len(document.Produtos))
	skipped := 0
	for _, record := range document.Produtos {
		product := domain.Product{
			ID:          coerceID(record.ID),
			Name:        strings.TrimSpace(record.Nome),
			Price:       record.Preco,
			Category:    fallbackCategory(record.Categoria),
			Subcategory: record.Subcategoria,
			Brand:       record.Marca,
			Available:   record.Disponivel == nil || *record.Disponivel,
			Rating:      record.Avaliacao,
			Tags:        record.Tags,
		}
		product.Promotion = parsePromotion(record.Promocao)
		if !validRecord(product) {
			skipped++
			continue
		}
		products = append(products, product)
	}
	return products, skipped, nil
}

// parsePromotion accepts either the object form or a bare boolean, which
// some legacy feeds emit for "no promotion".
func parsePromotion(raw json.RawMessage) *domain.Promotion {
	if len(raw) == 0 {
		return nil
	}
	var active bool
	if err := json.Unmarshal(raw, &active); err == nil {
		return nil // boolean form carries no discount data
	}
	var promo jsonPromotion
	if err := json.Unmarshal(raw, &promo); err != nil {
		return nil
	}
	if promo.PrecoOriginal == 0 && promo.Desconto == 0 {
		return nil
	}
	return &domain.Promotion{
		Discount:      promo.Desconto,
		OriginalPrice: promo.PrecoOriginal,
		ValidUntil:    promo.ValidoAte,
	}
}

// csvColumns is the expected header of tabular feeds.
var csvColumns = []string{"id", "nome", "preco", "categoria", "disponivel", "marca"}

func transformCSV(payload []byte) ([]domain.Product, int, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrPayloadMalformed, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: empty document", domain.ErrPayloadMalformed)
	}

	header := rows[0]
	if len(header) < len(csvColumns) {
		return nil, 0, fmt.Errorf("%w: expected header %v", domain.ErrPayloadMalformed, csvColumns)
	}
	for i, col := range csvColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, 0, fmt.Errorf("%w: expected header %v", domain.ErrPayloadMalformed, csvColumns)
		}
	}

	products := make([]domain.Product, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		if len(row) < len(csvColumns) {
			skipped++
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			skipped++
			continue
		}
		product := domain.Product{
			ID:        strings.TrimSpace(row[0]),
			Name:      strings.TrimSpace(row[1]),
			Price:     price,
			Category:  fallbackCategory(strings.TrimSpace(row[3])),
			Available: !strings.EqualFold(strings.TrimSpace(row[4]), "false"),
			Brand:     strings.TrimSpace(row[5]),
		}
		if !validRecord(product) {
			skipped++
			continue
		}
		products = append(products, product)
	}
	return products, skipped, nil
}

// validRecord enforces the product invariants: non-empty identity, price at
// or above zero, and a promotion whose original price is not below the
// current price.
func validRecord(p domain.Product) bool {
	if p.ID == "" || p.Name == "" || p.Price < 0 {
		return false
	}
	if p.Promotion != nil && p.Promotion.OriginalPrice < p.Price {
		return false
	}
	return true
}

func coerceID(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func fallbackCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return "outros"
	}
	return category
}
