package devbackend

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/healthdash/internal/domain"
)

var (
	seedFirstNames = []string{"Asha", "Ravi", "Maria", "James", "Linda", "Omar", "Mei", "Carlos", "Priya", "David", "Fatima", "Noah"}
	seedLastNames  = []string{"Rao", "Kumar", "Garcia", "Smith", "Johnson", "Haddad", "Chen", "Lopez", "Patel", "Brown", "Khan", "Miller"}
	seedCities     = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"}
	seedDiets      = []string{"vegetarian", "non-vegetarian", "vegan"}
	seedConditions = []string{"Type 2 Diabetes", "Hypertension", "Arthritis", "Asthma", "None"}
	seedLimits     = []string{"None", "Mobility Issues", "Swallowing Difficulties"}
	seedMoods      = []string{"happy", "tired", "calm", "stressed", "excited", "sad"}
	seedMeals      = []string{"oatmeal with berries", "dal and brown rice", "grilled chicken salad", "veggie wrap", "lentil soup", "quinoa bowl"}
)

const seedHistoryDays = 3

// SeedOptions controls synthetic data generation.
type SeedOptions struct {
	Users int
	Seed  int64
	// Now anchors the generated log history; it ends the day before Now.
	Now time.Time
}

// Seed fills an empty database with synthetic users and a short log history.
// The same options always produce the same rows. A populated database is left untouched.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) (int, error) {
	existing, err := s.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		slog.Info("Dev backend database already populated", "users", existing)
		return 0, nil
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)^0x9e3779b97f4a7c15))
	day := time.Date(opts.Now.Year(), opts.Now.Month(), opts.Now.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	userStmt, err := tx.PrepareContext(ctx, `INSERT INTO users VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare user insert: %w", err)
	}
	defer func() { _ = userStmt.Close() }()

	logStmt, err := tx.PrepareContext(ctx, `INSERT INTO logs (user_id, timestamp, log_type, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare log insert: %w", err)
	}
	defer func() { _ = logStmt.Close() }()

	for id := int64(1); id <= int64(opts.Users); id++ {
		_, err := userStmt.ExecContext(ctx, id,
			pick(rng, seedFirstNames),
			pick(rng, seedLastNames),
			pick(rng, seedCities),
			pick(rng, seedDiets),
			seedConditionList(rng),
			pick(rng, seedLimits),
		)
		if err != nil {
			return 0, fmt.Errorf("insert user %d: %w", id, err)
		}

		for d := seedHistoryDays; d >= 1; d-- {
			date := day.AddDate(0, 0, -d)
			entries := []struct {
				at      time.Time
				logType domain.LogType
				value   string
			}{
				{date.Add(8 * time.Hour), domain.LogTypeCGM, strconv.Itoa(70 + rng.IntN(251))},
				{date.Add(9 * time.Hour), domain.LogTypeMood, pick(rng, seedMoods)},
				{date.Add(13 * time.Hour), domain.LogTypeFood, pick(rng, seedMeals)},
			}
			for _, e := range entries {
				if _, err := logStmt.ExecContext(ctx, id, e.at.Format(TimestampLayout), string(e.logType), e.value); err != nil {
					return 0, fmt.Errorf("insert seed log for user %d: %w", id, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}
	slog.Info("Dev backend database seeded", "users", opts.Users)
	return opts.Users, nil
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.IntN(len(options))]
}

// seedConditionList draws one to three distinct conditions, with an extra
// chance of Type 2 Diabetes so CGM data stays relevant.
func seedConditionList(rng *rand.Rand) string {
	n := 1 + rng.IntN(3)
	perm := rng.Perm(len(seedConditions))
	var picked []string
	hasDiabetes := false
	for _, i := range perm[:n] {
		c := seedConditions[i]
		if c == "None" {
			continue
		}
		if c == "Type 2 Diabetes" {
			hasDiabetes = true
		}
		picked = append(picked, c)
	}
	if !hasDiabetes && rng.Float64() < 0.2 {
		picked = append(picked, "Type 2 Diabetes")
	}
	if len(picked) == 0 {
		return "None"
	}
	return strings.Join(picked, ", ")
}
