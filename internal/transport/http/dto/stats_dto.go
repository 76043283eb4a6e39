package dto

type StatsResponse struct {
	Matches       int64 `json:"matches"`
	LikesGiven    int64 `json:"likes_given"`
	LikesReceived int64 `json:"likes_received"`
	Listings      int64 `json:"listings"`
	TotalViews    int64 `json:"total_views"`
}
