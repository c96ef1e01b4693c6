package services

import (
	"math"
	"sort"
	"time"
)

const leaderboardCap = 100

// RankingStore abstracts the period-indexed read queries behind the
// leaderboard and reward views.
type RankingStore interface {
	ListEmissionsByWeek(week string) ([]*EmissionRecord, error)
	ListEmissionsByMonth(month string) ([]*EmissionRecord, error)
	GetUser(id string) (*User, error)
}

// RankingService computes the weekly leaderboard and monthly reward cohorts
// on demand; nothing is cached.
type RankingService struct {
	store RankingStore
	now   func() time.Time
}

func NewRankingService(store RankingStore) *RankingService {
	return &RankingService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// LeaderboardEntry is one row of the weekly leaderboard.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	UserEmail      string    `json:"userEmail"`
	Score          int       `json:"score"`
	TotalEmissions float64   `json:"totalEmissions"`
	Date           time.Time `json:"date"`
}

// WeeklyRanking is the leaderboard for one week. UserRank is nil when the
// requesting user does not appear in the capped list; a user ranked below
// the cap is reported as unranked rather than with their true rank.
type WeeklyRanking struct {
	Week              string             `json:"week"`
	Rankings          []LeaderboardEntry `json:"rankings"`
	UserRank          *int               `json:"userRank"`
	TotalParticipants int                `json:"totalParticipants"`
}

// WeeklyRanking builds the leaderboard for the given week identifier, or the
// current week when empty: score descending, date descending, top 100.
func (s *RankingService) WeeklyRanking(userID, week string) (*WeeklyRanking, error) {
	if week == "" {
		week = WeekIdentifier(s.now())
	}
	recs, err := s.store.ListEmissionsByWeek(week)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Date.After(recs[j].Date)
	})
	if len(recs) > leaderboardCap {
		recs = recs[:leaderboardCap]
	}

	rankings := make([]LeaderboardEntry, 0, len(recs))
	var userRank *int
	for i, r := range recs {
		entry := LeaderboardEntry{
			Rank:           i + 1,
			UserID:         r.UserID,
			Score:          r.Score,
			TotalEmissions: r.TotalEmissions,
			Date:           r.Date,
		}
		if u, err := s.store.GetUser(r.UserID); err == nil && u != nil {
			entry.UserName = u.Name
			entry.UserEmail = u.Email
		}
		if r.UserID == userID && userRank == nil {
			rank := i + 1
			userRank = &rank
		}
		rankings = append(rankings, entry)
	}

	return &WeeklyRanking{
		Week:              week,
		Rankings:          rankings,
		UserRank:          userRank,
		TotalParticipants: len(rankings),
	}, nil
}

// RewardSummary aggregates one user's month.
type RewardSummary struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"userId"`
	UserName       string  `json:"userName"`
	UserEmail      string  `json:"userEmail"`
	TotalScore     int     `json:"totalScore"`
	EntryCount     int     `json:"entryCount"`
	AverageScore   float64 `json:"averageScore"`
	TotalEmissions float64 `json:"totalEmissions"`
}

// UserReward is the requesting user's own standing, with their tier.
type UserReward struct {
	Rank           int     `json:"rank"`
	Tier           string  `json:"tier"`
	AverageScore   float64 `json:"averageScore"`
	TotalScore     int     `json:"totalScore"`
	EntryCount     int     `json:"entryCount"`
	TotalEmissions float64 `json:"totalEmissions"`
}

// TierCounts reports how many participants fall in each reward cohort.
type TierCounts struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// MonthlyRewards is the reward view for one month.
type MonthlyRewards struct {
	Month             string          `json:"month"`
	UserReward        *UserReward     `json:"userReward"`
	TopUsers          []RewardSummary `json:"topUsers"`
	TotalParticipants int             `json:"totalParticipants"`
	RewardTiers       TierCounts      `json:"rewardTiers"`
}

// MonthlyRewards groups the month's records per user, ranks users by average
// score and partitions them into tiers by rank fraction: gold is the top 10%
// (ceiling), silver the next 20%, bronze the next 20%. Everyone below the
// 50% line is untiered.
func (s *RankingService) MonthlyRewards(userID, month string) (*MonthlyRewards, error) {
	if month == "" {
		month = MonthIdentifier(s.now())
	}
	recs, err := s.store.ListEmissionsByMonth(month)
	if err != nil {
		return nil, err
	}

	// Group in first-appearance order so equal averages rank deterministically.
	index := map[string]int{}
	users := []*RewardSummary{}
	for _, r := range recs {
		i, ok := index[r.UserID]
		if !ok {
			i = len(users)
			index[r.UserID] = i
			summary := &RewardSummary{UserID: r.UserID}
			if u, err := s.store.GetUser(r.UserID); err == nil && u != nil {
				summary.UserName = u.Name
				summary.UserEmail = u.Email
			}
			users = append(users, summary)
		}
		users[i].TotalScore += r.Score
		users[i].EntryCount++
		users[i].TotalEmissions += r.TotalEmissions
	}
	for _, u := range users {
		u.AverageScore = round2(float64(u.TotalScore) / float64(u.EntryCount))
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].AverageScore > users[j].AverageScore
	})
	for i, u := range users {
		u.Rank = i + 1
	}

	n := len(users)
	goldCut := int(math.Ceil(float64(n) * 0.1))
	silverCut := int(math.Ceil(float64(n) * 0.3))
	bronzeCut := int(math.Ceil(float64(n) * 0.5))

	var userReward *UserReward
	for _, u := range users {
		if u.UserID != userID {
			continue
		}
		userReward = &UserReward{
			Rank:           u.Rank,
			Tier:           tierForRank(u.Rank, goldCut, silverCut, bronzeCut),
			AverageScore:   u.AverageScore,
			TotalScore:     u.TotalScore,
			EntryCount:     u.EntryCount,
			TotalEmissions: u.TotalEmissions,
		}
		break
	}

	topCount := min(10, n)
	topUsers := make([]RewardSummary, 0, topCount)
	for _, u := range users[:topCount] {
		topUsers = append(topUsers, *u)
	}

	return &MonthlyRewards{
		Month:             month,
		UserReward:        userReward,
		TopUsers:          topUsers,
		TotalParticipants: n,
		RewardTiers: TierCounts{
			Gold:   goldCut,
			Silver: silverCut - goldCut,
			Bronze: bronzeCut - silverCut,
		},
	}, nil
}

func tierForRank(rank, goldCut, silverCut, bronzeCut int) string {
	switch {
	case rank <= goldCut:
		return "gold"
	case rank <= silverCut:
		return "silver"
	case rank <= bronzeCut:
		return "bronze"
	default:
		return "none"
	}
}
