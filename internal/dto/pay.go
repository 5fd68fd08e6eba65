package dto

// PayBreakdown 薪资分项（各项均为最小货币单位）
type PayBreakdown struct {
	Base     int64 `json:"base"`
	Weekend  int64 `json:"weekend"`
	Holiday  int64 `json:"holiday"`
	Overtime int64 `json:"overtime"`
}

// PaySummaryResponse 薪资汇总响应
type PaySummaryResponse struct {
	StaffID      string       `json:"staff_id"`
	StaffName    string       `json:"staff_name,omitempty"`
	From         string       `json:"from"`
	To           string       `json:"to"`
	TotalHours   float64      `json:"total_hours"`
	TotalPay     int64        `json:"total_pay"`
	PayBreakdown PayBreakdown `json:"pay_breakdown"`
	TotalPoints  int          `json:"total_points"`
}

// PaySummaryRequest 薪资汇总查询
type PaySummaryRequest struct {
	DateRangeRequest
	StaffID string `form:"staff_id"`
}
