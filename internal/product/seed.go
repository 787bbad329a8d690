package product

import (
	"context"
	"log"
)

// SeedSampleData inserts a small demo catalog when the table is empty.
func SeedSampleData(ctx context.Context, repo Repository) error {
	existing, err := repo.List(ctx, Query{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	samples := []Product{
		{Name: "Laptop", Description: "A powerful laptop for all your needs.", Price: "1200.50", ImageURL: "https://placehold.co/600x400/EEE/31343C?text=Laptop", StockQuantity: 10},
		{Name: "Smartphone", Description: "A smart and sleek phone.", Price: "800.00", ImageURL: "https://placehold.co/600x400/EEE/31343C?text=Smartphone", StockQuantity: 25},
		{Name: "Headphones", Description: "Noise-cancelling headphones.", Price: "150.75", ImageURL: "https://placehold.co/600x400/EEE/31343C?text=Headphones", StockQuantity: 50},
		{Name: "Coffee Maker", Description: "Brews the perfect cup of coffee.", Price: "89.99", ImageURL: "https://placehold.co/600x400/EEE/31343C?text=Coffee+Maker", StockQuantity: 30},
	}
	for i := range samples {
		if err := repo.Create(ctx, &samples[i]); err != nil {
			return err
		}
	}
	log.Printf("[seed] inserted %d sample products", len(samples))
	return nil
}
