package domain

import "errors"

var ErrItemNotFound = errors.New("no statistics for item")

type ItemPopularity struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type PopularitySummary struct {
	Date               string          `json:"date"`
	MostPopularToday   *ItemPopularity `json:"most_popular_today,omitempty"`
	MostPopularAllTime *ItemPopularity `json:"most_popular_all_time,omitempty"`
}

type ItemStats struct {
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	TotalQuantity int64  `json:"total_quantity"`
	Orders        int64  `json:"orders"`
	LastOrdered   int64  `json:"last_ordered,omitempty"`
}
