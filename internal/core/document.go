package core

// document.go defines the canonical lab-result document produced by a
// conversion. One ModusResult wraps one Event; an Event covers the rows of
// one sheet that share a date.

// ModusResult is the canonical document handed to the schema validator.
type ModusResult struct {
	Events []Event `json:"Events" validate:"required,min=1,dive"`
}

// Event is one lab event.
type Event struct {
	EventMetaData EventMetaData `json:"EventMetaData"`
	LabMetaData   LabMetaData   `json:"LabMetaData"`
	FMISMetaData  FMISMetaData  `json:"FMISMetaData"`
	EventSamples  EventSamples  `json:"EventSamples"`
}

type EventMetaData struct {
	EventDate string    `json:"EventDate" validate:"required,eventdate"`
	EventCode string    `json:"EventCode,omitempty"`
	EventType EventType `json:"EventType"`
}

// EventType marks which kind of event this is. Exactly one field is set.
type EventType struct {
	Soil     bool            `json:"Soil,omitempty"`
	Plant    *PlantEventType `json:"Plant,omitempty"`
	Water    bool            `json:"Water,omitempty"`
	Nematode bool            `json:"Nematode,omitempty"`
	Residue  bool            `json:"Residue,omitempty"`
}

// LabType reports which kind the EventType marks.
func (t EventType) LabType() LabType {
	switch {
	case t.Plant != nil:
		return LabPlant
	case t.Water:
		return LabWater
	case t.Nematode:
		return LabNematode
	case t.Residue:
		return LabResidue
	case t.Soil:
		return LabSoil
	}
	return ""
}

type PlantEventType struct {
	Crop      Crop   `json:"Crop"`
	PlantPart string `json:"PlantPart" validate:"required"`
}

type Crop struct {
	Name           string      `json:"Name" validate:"required"`
	ClientID       string      `json:"ClientID" validate:"required"`
	GrowthStage    GrowthStage `json:"GrowthStage"`
	SubGrowthStage GrowthStage `json:"SubGrowthStage"`
}

type GrowthStage struct {
	Name     string `json:"Name" validate:"required"`
	ClientID string `json:"ClientID" validate:"required"`
}

type LabMetaData struct {
	LabName       string        `json:"LabName" validate:"required"`
	LabID         string        `json:"LabID,omitempty"`
	LabEventID    string        `json:"LabEventID" validate:"required"`
	ProcessedDate string        `json:"ProcessedDate" validate:"required"`
	ReceivedDate  string        `json:"ReceivedDate" validate:"required"`
	Reports       []Report      `json:"Reports" validate:"required,min=1,dive"`
	ClientAccount ClientAccount `json:"ClientAccount"`
}

// Report is one lab report referenced by samples through ReportID.
type Report struct {
	ReportID        int    `json:"ReportID" validate:"min=1"`
	LabReportID     string `json:"LabReportID" validate:"required"`
	FileDescription string `json:"FileDescription,omitempty"`
}

type ClientAccount struct {
	AccountNumber string `json:"AccountNumber" validate:"required"`
	Company       string `json:"Company" validate:"required"`
	Name          string `json:"Name" validate:"required"`
	Address1      string `json:"Address1,omitempty"`
	Address2      string `json:"Address2,omitempty"`
	City          string `json:"City" validate:"required"`
	State         string `json:"State" validate:"required"`
	Zip           string `json:"Zip" validate:"required"`
}

type FMISMetaData struct {
	FMISEventID string      `json:"FMISEventID,omitempty"`
	FMISProfile FMISProfile `json:"FMISProfile"`
}

type FMISProfile struct {
	Grower   string `json:"Grower" validate:"required"`
	Farm     string `json:"Farm" validate:"required"`
	Field    string `json:"Field" validate:"required"`
	SubField string `json:"Sub-Field" validate:"required"`
}

// EventSamples holds the samples of the event, under the key matching the
// event type.
type EventSamples struct {
	Soil     *SoilSamples     `json:"Soil,omitempty"`
	Plant    *PlantSamples    `json:"Plant,omitempty"`
	Water    *WaterSamples    `json:"Water,omitempty"`
	Nematode *NematodeSamples `json:"Nematode,omitempty"`
	Residue  *ResidueSamples  `json:"Residue,omitempty"`
}

type SoilSamples struct {
	DepthRefs   []DepthRef   `json:"DepthRefs" validate:"required,min=1,dive"`
	SoilSamples []SoilSample `json:"SoilSamples" validate:"required,min=1,dive"`
}

type SoilSample struct {
	SampleMetaData SampleMetaData `json:"SampleMetaData"`
	Depths         []SampleDepth  `json:"Depths" validate:"required,min=1,dive"`
}

type SampleDepth struct {
	DepthID         int              `json:"DepthID" validate:"min=1"`
	NutrientResults []NutrientResult `json:"NutrientResults" validate:"dive"`
}

// Depth is a soil sampling depth.
type Depth struct {
	Name          string  `json:"Name" validate:"required"`
	StartingDepth float64 `json:"StartingDepth" validate:"gte=0"`
	EndingDepth   float64 `json:"EndingDepth" validate:"gte=0"`
	ColumnDepth   float64 `json:"ColumnDepth" validate:"gte=0"`
	DepthUnit     string  `json:"DepthUnit" validate:"required"`
}

// DepthRef is a Depth registered in an Event and referenced by DepthID.
type DepthRef struct {
	DepthID int `json:"DepthID" validate:"min=1"`
	Depth
}

type PlantSamples struct {
	PlantSamples []Sample `json:"PlantSamples" validate:"required,min=1,dive"`
}

type WaterSamples struct {
	WaterSamples []Sample `json:"WaterSamples" validate:"required,min=1,dive"`
}

type NematodeSamples struct {
	NematodeSamples []Sample `json:"NematodeSamples" validate:"required,min=1,dive"`
}

type ResidueSamples struct {
	ResidueSamples []Sample `json:"ResidueSamples" validate:"required,min=1,dive"`
}

// Sample is a non-soil sample with its results attached directly.
type Sample struct {
	SampleMetaData  SampleMetaData   `json:"SampleMetaData"`
	NutrientResults []NutrientResult `json:"NutrientResults" validate:"dive"`
}

type SampleMetaData struct {
	SampleNumber      string `json:"SampleNumber,omitempty"`
	ReportID          int    `json:"ReportID" validate:"min=1"`
	FMISSampleID      string `json:"FMISSampleID,omitempty"`
	SampleContainerID string `json:"SampleContainerID,omitempty"`
	Geometry          string `json:"Geometry,omitempty"`
}
