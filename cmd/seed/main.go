// Package main provides the savor-seed CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "savor-seed",
		Short: "Seed and inspect a running savor instance",
		Long: `savor-seed posts sample restaurants and reviews to a running savor
server and prints the resulting leaderboard.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newSeedCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sampleReviews maps restaurant names to the reviews seeded for them.
var sampleData = []struct {
	name     string
	location string
	reviews  []string
}{
	{
		name:     "Pasta Palace",
		location: "12 Via Roma",
		reviews: []string{
			"Amazing pasta, great service, absolutely loved it!",
			"Really good carbonara. Will come back.",
			"Decent food but the wait was long.",
		},
	},
	{
		name:     "Burger Barn",
		location: "48 Main St",
		reviews: []string{
			"Terrible burger, cold fries, awful experience.",
			"Not great, not terrible.",
		},
	},
	{
		name:     "Sushi Spot",
		location: "7 Harbor Way",
		reviews: []string{
			"Fresh fish and wonderful presentation, excellent!",
			"Best sushi in town, fantastic quality.",
		},
	},
}

func newSeedCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create sample restaurants and reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), baseURL, timeout)
		},
	}

	cmd.Flags().StringVar(&baseURL, "addr", "http://localhost:9080", "Base URL of the savor server")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP request timeout")

	return cmd
}

func newBoardCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the current leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd.Context(), baseURL, timeout)
		},
	}

	cmd.Flags().StringVar(&baseURL, "addr", "http://localhost:9080", "Base URL of the savor server")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "HTTP request timeout")

	return cmd
}

func runSeed(ctx context.Context, baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}

	for _, sample := range sampleData {
		restaurant, err := createRestaurant(ctx, client, baseURL, sample.name, sample.location)
		if err != nil {
			return fmt.Errorf("create restaurant %q: %w", sample.name, err)
		}
		fmt.Printf("created %s (%s)\n", sample.name, restaurant.ID)

		for _, text := range sample.reviews {
			if err := createReview(ctx, client, baseURL, restaurant.ID, text); err != nil {
				return fmt.Errorf("add review for %q: %w", sample.name, err)
			}
		}
		fmt.Printf("  added %d reviews\n", len(sample.reviews))
	}

	return runBoard(ctx, baseURL, timeout)
}

type restaurantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func createRestaurant(ctx context.Context, client *http.Client, baseURL, name, location string) (*restaurantResponse, error) {
	body, err := json.Marshal(map[string]string{"name": name, "location": location})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/restaurants", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out restaurantResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func createReview(ctx context.Context, client *http.Client, baseURL, restaurantID, text string) error {
	body, err := json.Marshal(map[string]string{"restaurant_id": restaurantID, "text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/reviews", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func runBoard(ctx context.Context, baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/leaderboard", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Leaderboard []struct {
			Rank       int `json:"rank"`
			Restaurant struct {
				Name             string  `json:"name"`
				AverageSentiment float64 `json:"average_sentiment"`
				TotalReviews     int     `json:"total_reviews"`
			} `json:"restaurant"`
			CachedSentiment float64 `json:"cached_sentiment"`
		} `json:"leaderboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}

	fmt.Println("leaderboard:")
	for _, entry := range payload.Leaderboard {
		fmt.Printf("  %2d. %-20s %.2f (%d reviews)\n",
			entry.Rank, entry.Restaurant.Name, entry.Restaurant.AverageSentiment, entry.Restaurant.TotalReviews)
	}
	return nil
}
