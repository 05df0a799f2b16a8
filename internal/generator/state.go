package generator

import (
	"github.com/synabon/synabon/internal/models"
)

// Reconstruct aggregates a dataset into the last known state of every user it
// contains: the balance on the user's latest record, the number of prior
// transactions, and the user's country and device. Users are returned in
// first-seen order so that a seeded run over the result is reproducible.
func Reconstruct(d models.Dataset) []models.UserState {
	index := make(map[string]int, 64)
	states := make([]models.UserState, 0, 64)
	latest := make(map[string]models.Record, 64)

	for _, r := range d {
		i, ok := index[r.UserID]
		if !ok {
			i = len(states)
			index[r.UserID] = i
			states = append(states, models.UserState{
				UserID:  r.UserID,
				Country: r.Country,
				Device:  r.Device,
			})
			latest[r.UserID] = r
		}
		if r.Type == models.Transaction {
			states[i].Interactions++
		}
		// Last record wins on balance; on equal timestamps the later row wins,
		// matching the dataset's stable generation order.
		if !r.Date.Before(latest[r.UserID].Date) {
			latest[r.UserID] = r
		}
	}

	for i := range states {
		states[i].Balance = latest[states[i].UserID].Balance
	}
	return states
}
