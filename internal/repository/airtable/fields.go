package airtable

import (
	"encoding/json"

	"github.com/mehanizm/airtable"

	"sentinel/internal/domain/document"
	"sentinel/internal/domain/vendor"
)

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// Airtable numbers come back as float64 regardless of the column type.
func floatField(fields map[string]interface{}, key string) float64 {
	if v, ok := fields[key].(float64); ok {
		return v
	}
	return 0
}

func intField(fields map[string]interface{}, key string) (int, bool) {
	if v, ok := fields[key].(float64); ok {
		return int(v), true
	}
	return 0, false
}

func int64Field(fields map[string]interface{}, key string) int64 {
	if v, ok := fields[key].(float64); ok {
		return int64(v)
	}
	return 0
}

// linkField extracts the first record ID from a linked-record column.
func linkField(fields map[string]interface{}, key string) string {
	links, ok := fields[key].([]interface{})
	if !ok || len(links) == 0 {
		return ""
	}
	if id, ok := links[0].(string); ok {
		return id
	}
	return ""
}

// jsonListField decodes a long-text column holding a JSON array of strings.
// Malformed or missing values decode to nil rather than failing the read.
func jsonListField(fields map[string]interface{}, key string) []string {
	raw, ok := fields[key].(string)
	if !ok || raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func vendorFromRecord(rec *airtable.Record) vendor.Vendor {
	v := vendor.Vendor{
		ID:              rec.ID,
		Name:            stringField(rec.Fields, "Name"),
		Website:         stringField(rec.Fields, "Website"),
		Description:     stringField(rec.Fields, "Description"),
		Criticality:     stringField(rec.Fields, "Criticality"),
		Spend:           floatField(rec.Fields, "Spend"),
		DataSensitivity: stringField(rec.Fields, "Data Sensitivity"),
		RiskLevel:       stringField(rec.Fields, "Risk Level"),
		LastAssessed:    stringField(rec.Fields, "Last Assessed"),
	}
	if score, ok := intField(rec.Fields, "Risk Score"); ok {
		v.RiskScore = &score
	}
	return v
}

func documentFromRecord(rec *airtable.Record) document.Document {
	d := document.Document{
		ID:              rec.ID,
		VendorID:        linkField(rec.Fields, "Vendor"),
		Filename:        stringField(rec.Fields, "Filename"),
		FileType:        stringField(rec.Fields, "File Type"),
		DocumentType:    stringField(rec.Fields, "Document Type"),
		FileSize:        int64Field(rec.Fields, "File Size"),
		FileURL:         stringField(rec.Fields, "File URL"),
		UploadDate:      stringField(rec.Fields, "Upload Date"),
		AnalysisStatus:  stringField(rec.Fields, "Analysis Status"),
		Findings:        jsonListField(rec.Fields, "Findings"),
		Recommendations: jsonListField(rec.Fields, "Recommendations"),
	}
	if d.AnalysisStatus == "" {
		d.AnalysisStatus = document.StatusNotAnalyzed
	}
	if score, ok := intField(rec.Fields, "Risk Score"); ok {
		d.RiskScore = &score
	}
	d.RiskLevel = stringField(rec.Fields, "Risk Level")
	return d
}
