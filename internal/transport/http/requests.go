package http

type loginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=1,max=255"`
}

type recordRequest struct {
	Title           string `json:"title" validate:"required,min=3,max=255"`
	Description     string `json:"description" validate:"required"`
	RootCause       string `json:"rootCause"`
	Impact          string `json:"impact"`
	Category        string `json:"category" validate:"required,max=100"`
	Subcategory     string `json:"subcategory" validate:"max=100"`
	Workaround      string `json:"workaround"`
	Resolution      string `json:"resolution"`
	Status          string `json:"status" validate:"omitempty,record_status"`
	DateIdentified  string `json:"dateIdentified" validate:"required"`
	Environment     string `json:"environment" validate:"max=100"`
	Priority        string `json:"priority" validate:"omitempty,priority"`
	LinkedIncidents string `json:"linkedIncidents"`
	Owner           string `json:"owner" validate:"max=255"`
}

type updateStatusRequest struct {
	Status     string `json:"status" validate:"required,record_status"`
	Resolution string `json:"resolution"`
}

type assignRequest struct {
	AssignedTo int    `json:"assignedTo" validate:"required,gt=0"`
	DueDate    string `json:"dueDate" validate:"omitempty"`
	Notes      string `json:"notes" validate:"max=2000"`
}

type revertRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type draftRequest struct {
	Title           string `json:"title" validate:"max=255"`
	Description     string `json:"description"`
	RootCause       string `json:"rootCause"`
	Impact          string `json:"impact"`
	Category        string `json:"category" validate:"max=100"`
	Subcategory     string `json:"subcategory" validate:"max=100"`
	Workaround      string `json:"workaround"`
	Resolution      string `json:"resolution"`
	DateIdentified  string `json:"dateIdentified" validate:"omitempty"`
	Environment     string `json:"environment" validate:"max=100"`
	Priority        string `json:"priority" validate:"omitempty,priority"`
	LinkedIncidents string `json:"linkedIncidents"`
}
