package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeOrders decodes a JSON array of orders record by record. Records that
// do not decode are counted in skipped instead of failing the whole array.
func DecodeOrders(data []byte) (orders []Order, skipped int, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("orders are not a JSON array: %w", err)
	}

	orders = make([]Order, 0, len(raw))
	for _, record := range raw {
		var order Order
		if err := json.Unmarshal(record, &order); err != nil {
			skipped++
			continue
		}
		orders = append(orders, order)
	}
	return orders, skipped, nil
}

// AppendOrders appends orders to an encoded order array. Existing records are
// kept as they are, including ones DecodeOrders would skip. Empty or null data
// starts a new array.
func AppendOrders(data []byte, orders []Order) ([]byte, error) {
	var raw []json.RawMessage
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("orders are not a JSON array: %w", err)
		}
	}
	for _, order := range orders {
		record, err := json.Marshal(order)
		if err != nil {
			return nil, err
		}
		raw = append(raw, record)
	}
	if raw == nil {
		raw = []json.RawMessage{}
	}
	return json.Marshal(raw)
}
