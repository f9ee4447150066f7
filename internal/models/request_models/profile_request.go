package request_models

type ProfileRequest struct {
	Bio         string `json:"bio" form:"bio"`
	FitnessGoal string `json:"fitness_goal" form:"fitness_goal" validate:"max=100"`
}
