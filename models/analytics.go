package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Overview struct {
	TotalIssues      int64 `json:"totalIssues"`
	RecentIssues     int64 `json:"recentIssues"`
	ResolvedIssues   int64 `json:"resolvedIssues"`
	PendingIssues    int64 `json:"pendingIssues"`
	InProgressIssues int64 `json:"inProgressIssues"`
	ResolutionRate   int   `json:"resolutionRate"`
}

// GroupCount is one bucket of a grouped count; ID is the grouped value.
type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// ResolutionTime is measured in days.
type ResolutionTime struct {
	Avg float64 `bson:"avgResolutionTime" json:"avgResolutionTime"`
	Min float64 `bson:"minResolutionTime" json:"minResolutionTime"`
	Max float64 `bson:"maxResolutionTime" json:"maxResolutionTime"`
}

type YearMonth struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
}

type MonthlyPoint struct {
	ID       YearMonth `bson:"_id" json:"_id"`
	Count    int64     `bson:"count" json:"count"`
	Resolved int64     `bson:"resolved" json:"resolved"`
}

type WorkerStat struct {
	WorkerID       primitive.ObjectID `bson:"_id" json:"_id"`
	WorkerName     string             `bson:"workerName" json:"workerName"`
	WorkerEmail    string             `bson:"workerEmail" json:"workerEmail"`
	CompletedCount int64              `bson:"completedCount" json:"completedCount"`
}

type LocationPoint struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Location GeoPoint           `bson:"location" json:"location"`
	Category IssueCategory      `bson:"category" json:"category"`
	Status   IssueStatus        `bson:"status" json:"status"`
}

// Analytics is the full admin dashboard payload.
type Analytics struct {
	Overview       Overview        `json:"overview"`
	CategoryStats  []GroupCount    `json:"categoryStats"`
	StatusStats    []GroupCount    `json:"statusStats"`
	PriorityStats  []GroupCount    `json:"priorityStats"`
	ResolutionTime ResolutionTime  `json:"resolutionTime"`
	MonthlyTrend   []MonthlyPoint  `json:"monthlyTrend"`
	TopWorkers     []WorkerStat    `json:"topWorkers"`
	LocationData   []LocationPoint `json:"locationData"`
}

// ResolutionRate is resolved/total as a whole percentage, 0 when total is 0.
func ResolutionRate(resolved, total int64) int {
	if total <= 0 {
		return 0
	}
	return int((resolved*100*2 + total) / (total * 2))
}
