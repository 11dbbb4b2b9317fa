// Command tablecheck prints a quick health report for the published feature
// table: row counts, date coverage and a couple of sanity aggregates. Run it
// after a replay to eyeball the output before pointing the model at it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

func main() {
	chURL := os.Getenv("CLICKHOUSE_URL")
	if chURL == "" {
		chURL = "clickhouse://localhost:9000/tennis"
	}
	table := os.Getenv("FEATURE_TABLE")
	if table == "" {
		table = "tennis.match_features"
	}

	opts, err := clickhouse.ParseDSN(chURL)
	if err != nil {
		log.Fatalf("Failed to parse DSN: %v", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open connection: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := conn.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping ClickHouse: %v", err)
	}

	printStats(ctx, conn, table)
	printBreakdown(ctx, conn, table, "Rows by surface", "surface", "toFloat64(count())")
	printBreakdown(ctx, conn, table, "P1 win rate by surface", "surface", "avg(winner)")
	printBreakdown(ctx, conn, table, "Rows by year", "toString(toYear(match_date))", "toFloat64(count())")
}

func printStats(ctx context.Context, conn chdriver.Conn, table string) {
	var rows, distinct uint64
	var minDate, maxDate time.Time

	query := fmt.Sprintf(`
		SELECT
			count() as rows,
			uniqExact(match_id) as distinct_matches,
			min(match_date) as min_date,
			max(match_date) as max_date
		FROM %s
	`, table)
	if err := conn.QueryRow(ctx, query).Scan(&rows, &distinct, &minDate, &maxDate); err != nil {
		log.Fatalf("Stats query failed: %v", err)
	}

	fmt.Printf("Table %s\n", table)
	fmt.Printf("  rows:             %d\n", rows)
	fmt.Printf("  distinct matches: %d\n", distinct)
	if dup := rows - distinct; dup > 0 {
		fmt.Printf("  DUPLICATES:       %d\n", dup)
	}
	fmt.Printf("  date range:       %s to %s\n",
		minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"))
}

func printBreakdown(ctx context.Context, conn chdriver.Conn, table, title, dimension, metric string) {
	fmt.Printf("\n%s\n", title)

	query := fmt.Sprintf(`
		SELECT %s as value, %s as label
		FROM %s
		GROUP BY %s
		ORDER BY label ASC
	`, metric, dimension, table, dimension)
	rows, err := conn.Query(ctx, query)
	if err != nil {
		log.Printf("Breakdown query failed: %v", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var value float64
		var label string
		if err := rows.Scan(&value, &label); err != nil {
			log.Printf("Scan failed: %v", err)
			return
		}
		fmt.Printf("  %-20s %12.4f\n", label, value)
		count++
	}
	if count == 0 {
		fmt.Println("  (no data)")
	}
}
