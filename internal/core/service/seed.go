package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func demoItems() []domain.StorageItem {
	return []domain.StorageItem{
		{
			ID:             "1",
			Name:           "Fresh Tomatoes",
			Category:       domain.CategoryProduce,
			Quantity:       decimal.NewFromInt(25),
			Unit:           domain.UnitLbs,
			Location:       "Walk-in Cooler A",
			ExpirationDate: "2025-01-12",
			AddedBy:        "Jane Employee",
			AddedAt:        mustTime("2025-01-05T10:30:00Z"),
			LastUpdated:    mustTime("2025-01-05T10:30:00Z"),
		},
		{
			ID:             "2",
			Name:           "Ground Beef",
			Category:       domain.CategoryMeat,
			Quantity:       decimal.NewFromInt(15),
			Unit:           domain.UnitLbs,
			Location:       "Freezer B",
			ExpirationDate: "2025-01-15",
			AddedBy:        "John Manager",
			AddedAt:        mustTime("2025-01-04T14:20:00Z"),
			LastUpdated:    mustTime("2025-01-04T14:20:00Z"),
		},
		{
			ID:             "3",
			Name:           "Whole Milk",
			Category:       domain.CategoryDairy,
			Quantity:       decimal.NewFromInt(8),
			Unit:           domain.UnitGallons,
			Location:       "Walk-in Cooler A",
			ExpirationDate: "2025-01-10",
			AddedBy:        "Jane Employee",
			AddedAt:        mustTime("2025-01-03T09:15:00Z"),
			LastUpdated:    mustTime("2025-01-03T09:15:00Z"),
		},
	}
}

func demoActivities() []domain.ActivityLogEntry {
	return []domain.ActivityLogEntry{
		{
			ID:           "1",
			Action:       domain.ActionAdded,
			ItemName:     "Fresh Tomatoes",
			Details:      "Added 25 lbs to Walk-in Cooler A",
			EmployeeName: "Jane Employee",
			Timestamp:    mustTime("2025-01-05T10:30:00Z"),
		},
		{
			ID:           "2",
			Action:       domain.ActionUpdated,
			ItemName:     "Ground Beef",
			Details:      "Updated quantity from 20 lbs to 15 lbs",
			EmployeeName: "John Manager",
			Timestamp:    mustTime("2025-01-04T16:45:00Z"),
		},
	}
}
