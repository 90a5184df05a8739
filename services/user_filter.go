package services

import (
	"sort"
	"strings"

	"stageready/models"
)

// UserFilter holds the users-page browse parameters
type UserFilter struct {
	Search string // case-insensitive substring over first name, last name, email
	Role   string // role, or "all"
	Gender string // gender, or "all"
	SortBy string // name | date | role
}

// Apply filters and sorts the user list without mutating the input
func (f UserFilter) Apply(users []models.User) []models.User {
	result := make([]models.User, len(users))
	copy(result, users)

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		result = keepUsers(result, func(u models.User) bool {
			return strings.Contains(strings.ToLower(u.FirstName), q) ||
				strings.Contains(strings.ToLower(u.LastName), q) ||
				strings.Contains(strings.ToLower(u.Email), q)
		})
	}
	if f.Role != "" && f.Role != "all" {
		result = keepUsers(result, func(u models.User) bool { return u.Role == f.Role })
	}
	if f.Gender != "" && f.Gender != "all" {
		result = keepUsers(result, func(u models.User) bool {
			return strings.EqualFold(u.Gender, f.Gender)
		})
	}

	switch f.SortBy {
	case "date":
		sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	case "role":
		sort.SliceStable(result, func(i, j int) bool { return result[i].Role < result[j].Role })
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].DisplayName()) < strings.ToLower(result[j].DisplayName())
		})
	}
	return result
}

func keepUsers(users []models.User, keep func(models.User) bool) []models.User {
	out := users[:0]
	for _, u := range users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}
