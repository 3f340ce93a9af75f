package domain

import "time"

const OrderPlaced = "order_placed"

type OrderItem struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderMessage is the order_placed event as published by order-svc.
type OrderMessage struct {
	Type      string      `json:"type"`
	Reference string      `json:"reference"`
	Items     []OrderItem `json:"items"`
	Total     string      `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}
