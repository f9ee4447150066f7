package response_models

type ProfileResponse struct {
	Bio         string `json:"bio"`
	FitnessGoal string `json:"fitness_goal"`
	AvatarKey   string `json:"avatar_key,omitempty"`
}

type ProfilePageResponse struct {
	Username      string                      `json:"username"`
	Email         string                      `json:"email"`
	Profile       ProfileResponse             `json:"profile"`
	Subscription  *SubscriptionStatusResponse `json:"subscription"`
	RecentUpdates []ProgressUpdateResponse    `json:"recent_updates"`
	Today         string                      `json:"today"`
	// DaysRemaining is set only for an active subscription with a next payment date.
	DaysRemaining *int `json:"days_remaining,omitempty"`
}
