package types

type (
	FlowQuery struct {
		ProjectId string `form:"project_id"`
		From      string `form:"from,optional"`
		To        string `form:"to,optional"`
		Timezone  string `form:"timezone,optional"`
	}

	TopEvent struct {
		Event      string  `json:"event"`
		Count      uint64  `json:"count"`
		Percentage float64 `json:"percentage"`
	}

	RegistrationFlowResponse struct {
		TotalUsers     uint64     `json:"totalUsers"`
		ConversionRate float64    `json:"conversionRate"`
		DropOffRate    float64    `json:"dropOffRate"`
		AverageTime    float64    `json:"averageTime"`
		TopEvents      []TopEvent `json:"topEvents"`
	}

	FunnelStep struct {
		Step           string  `json:"step"`
		Users          uint64  `json:"users"`
		ConversionRate float64 `json:"conversionRate"`
		DropOffRate    float64 `json:"dropOffRate"`
		AverageTime    float64 `json:"averageTime"`
	}

	FunnelResponse struct {
		Steps []FunnelStep `json:"steps"`
	}

	FailureReason struct {
		Reason string `json:"reason"`
		Count  uint64 `json:"count"`
	}

	PaymentStatus struct {
		Status         string          `json:"status"`
		Count          uint64          `json:"count"`
		Percentage     float64         `json:"percentage"`
		FailureReasons []FailureReason `json:"failureReasons,omitempty"`
	}

	PaymentFlowResponse struct {
		Statuses []PaymentStatus `json:"statuses"`
	}

	ActivationCohort struct {
		Cohort string  `json:"cohort"`
		Day1   float64 `json:"day1"`
		Day3   float64 `json:"day3"`
		Day7   float64 `json:"day7"`
		Day14  float64 `json:"day14"`
		Day30  float64 `json:"day30"`
	}

	ActivationFlowResponse struct {
		Cohorts []ActivationCohort `json:"cohorts"`
	}

	OverviewResponse struct {
		Registration RegistrationFlowResponse `json:"registration"`
		Payment      []PaymentStatus          `json:"payment"`
		Activation   []ActivationCohort       `json:"activation"`
	}

	ProjectCreateRequest struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone,optional"`
	}

	ProjectGetRequest struct {
		Id string `path:"id"`
	}

	ProjectResponse struct {
		Id        string `json:"id"`
		Name      string `json:"name"`
		Timezone  string `json:"timezone"`
		CreatedAt string `json:"created_at"`
	}

	ProjectListResponse struct {
		Projects []ProjectResponse `json:"projects"`
	}
)
