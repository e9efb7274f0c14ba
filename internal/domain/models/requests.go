package models

// WhichRequest selects one dependent-variable group.
type WhichRequest struct {
	Which string `param:"which" validate:"required,oneof=profit wage"`
}

// DatasetRequest filters the analysis table.
type DatasetRequest struct {
	From  string `query:"from"`
	To    string `query:"to"`
	Limit int    `query:"limit" default:"0" validate:"min=0"`
}
