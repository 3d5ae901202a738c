package services

import (
	"sort"
	"strings"

	"spotlight/contexts/contest-engagement/bonus-ledger/domain/entities"
	domainerrors "spotlight/contexts/contest-engagement/bonus-ledger/domain/errors"
)

type predicate func(entities.ProfileSnapshot) bool

var profilePredicates = map[string]predicate{
	entities.TaskCompleteProfile: func(p entities.ProfileSnapshot) bool {
		return p.DisplayName != "" && p.Bio != "" && p.City != ""
	},
	entities.TaskAddPhoto: func(p entities.ProfileSnapshot) bool {
		return p.PhotoRef != ""
	},
	entities.TaskAddSocial: func(p entities.ProfileSnapshot) bool {
		return p.Instagram != "" || p.TikTok != "" || p.Twitter != "" || p.Facebook != "" || p.YouTube != ""
	},
}

// Satisfied evaluates the predicate for a profile task key. ok is false when
// the key has no predicate.
func Satisfied(taskKey string, snapshot entities.ProfileSnapshot) (satisfied bool, ok bool) {
	check, ok := profilePredicates[strings.TrimSpace(taskKey)]
	if !ok {
		return false, false
	}
	return check(snapshot.Normalized()), true
}

// ValidateCatalog normalizes tasks for publication and orders them by sort
// order then key. Profile tasks must have a known predicate.
func ValidateCatalog(competitionID string, tasks []entities.Task) ([]entities.Task, error) {
	if strings.TrimSpace(competitionID) == "" || len(tasks) == 0 {
		return nil, domainerrors.ErrInvalidCatalog
	}
	seen := make(map[string]struct{}, len(tasks))
	out := make([]entities.Task, 0, len(tasks))
	for i, task := range tasks {
		task.CompetitionID = strings.TrimSpace(competitionID)
		task.Key = strings.TrimSpace(task.Key)
		task.Label = strings.TrimSpace(task.Label)
		if task.Key == "" || task.Points <= 0 || !task.Kind.Valid() {
			return nil, domainerrors.ErrInvalidCatalog
		}
		if _, dup := seen[task.Key]; dup {
			return nil, domainerrors.ErrInvalidCatalog
		}
		if task.Kind == entities.TaskKindProfile {
			if _, ok := profilePredicates[task.Key]; !ok {
				return nil, domainerrors.ErrInvalidCatalog
			}
		}
		if task.Label == "" {
			task.Label = task.Key
		}
		if task.SortOrder == 0 {
			task.SortOrder = i + 1
		}
		seen[task.Key] = struct{}{}
		out = append(out, task)
	}
	SortTasks(out)
	return out, nil
}

func SortTasks(tasks []entities.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].SortOrder == tasks[j].SortOrder {
			return tasks[i].Key < tasks[j].Key
		}
		return tasks[i].SortOrder < tasks[j].SortOrder
	})
}

func FindTask(tasks []entities.Task, key string) (entities.Task, bool) {
	key = strings.TrimSpace(key)
	for _, task := range tasks {
		if task.Key == key {
			return task, true
		}
	}
	return entities.Task{}, false
}

// Status folds the catalog and award records into the caller-facing summary.
// A completed task reports the points it was granted, so votesEarned never
// exceeds votesAvailable after a point edit.
func Status(contestantID string, tasks []entities.Task, awards []entities.AwardRecord) entities.BonusVoteStatus {
	byKey := make(map[string]entities.AwardRecord, len(awards))
	for _, award := range awards {
		byKey[award.TaskKey] = award
	}
	status := entities.BonusVoteStatus{
		ContestantID: contestantID,
		Tasks:        make([]entities.TaskStatus, 0, len(tasks)),
		TotalCount:   len(tasks),
	}
	for _, task := range tasks {
		item := entities.TaskStatus{Task: task}
		if award, ok := byKey[task.Key]; ok {
			awardedAt := award.AwardedAt
			item.Completed = true
			item.PointsGranted = award.PointsGranted
			item.AwardedAt = &awardedAt
			status.CompletedCount++
			status.VotesEarned += award.PointsGranted
			status.VotesAvailable += award.PointsGranted
		} else {
			status.VotesAvailable += task.Points
		}
		status.Tasks = append(status.Tasks, item)
	}
	return status
}
