package models

// VisitorStatus is the lifecycle state of a visitor record.
type VisitorStatus string

// Lifecycle states. Transitions are monotone along Pending -> CheckedIn ->
// CheckedOut; Expired is reachable from Pending or CheckedIn only.
const (
	StatusPending    VisitorStatus = "Pending"
	StatusCheckedIn  VisitorStatus = "CheckedIn"
	StatusCheckedOut VisitorStatus = "CheckedOut"
	StatusExpired    VisitorStatus = "Expired"
)

// ActiveStatuses are the states a record can be found in by a history query.
// Expired records are deleted from the store and never listed.
var ActiveStatuses = []VisitorStatus{StatusPending, StatusCheckedIn, StatusCheckedOut}

// VisitorRecord is one issued access code and its visit details. Attribute
// names (including the lowercase check-in/out timestamps) are part of the
// wire and storage contract and must not change.
type VisitorRecord struct {
	PK string `json:"PK" dynamodbav:"PK"`
	SK string `json:"SK" dynamodbav:"SK"`

	AccessCode       string `json:"AccessCode" dynamodbav:"AccessCode"`
	FirstName        string `json:"FirstName" dynamodbav:"FirstName"`
	LastName         string `json:"LastName" dynamodbav:"LastName"`
	Email            string `json:"Email" dynamodbav:"Email"`
	Phone            string `json:"Phone" dynamodbav:"Phone"`
	VisitType        string `json:"VisitType" dynamodbav:"VisitType"`
	StaffToVisit     string `json:"StaffToVisit" dynamodbav:"StaffToVisit"`
	EstimatedArrival string `json:"EstimatedArrival" dynamodbav:"EstimatedArrival"`
	MultiDayVisit    bool   `json:"MultiDayVisit" dynamodbav:"MultiDayVisit"`
	Reason           string `json:"Reason" dynamodbav:"Reason"`
	IdentityCard     string `json:"IdentityCard" dynamodbav:"IdentityCard"`

	// StartDate/EndDate are present only for multi-day visits, always together.
	StartDate string `json:"StartDate,omitempty" dynamodbav:"StartDate,omitempty"`
	EndDate   string `json:"EndDate,omitempty" dynamodbav:"EndDate,omitempty"`

	CreatedBy string        `json:"CreatedBy" dynamodbav:"CreatedBy"`
	CreatedAt string        `json:"CreatedAt" dynamodbav:"CreatedAt"`
	Status    VisitorStatus `json:"Status" dynamodbav:"Status"`

	// ExpiresAt is epoch seconds: estimated arrival + the 72h grace window.
	ExpiresAt int64 `json:"ExpiresAt" dynamodbav:"ExpiresAt"`

	CheckInTime  string `json:"checkInTime,omitempty" dynamodbav:"checkInTime,omitempty"`
	CheckOutTime string `json:"checkOutTime,omitempty" dynamodbav:"checkOutTime,omitempty"`
}

// VisitorSK is the sort key of every visitor item.
const VisitorSK = "META"

// VisitorPK returns the partition key for an access code.
func VisitorPK(accessCode string) string {
	return "VISITOR#" + accessCode
}

// FullName returns the visitor's display name for notifications.
func (r *VisitorRecord) FullName() string {
	return r.FirstName + " " + r.LastName
}
