package airtable

import (
	"context"

	"github.com/mehanizm/airtable"

	adapter "sentinel/internal/adapters/airtable"
	"sentinel/internal/domain/vendor"
	"sentinel/pkg/errors"
)

// VendorRepo persists vendors in Airtable.
type VendorRepo struct {
	client *adapter.Client
}

var _ vendor.Repository = (*VendorRepo)(nil)

// NewVendorRepo creates the vendor repository. A nil client switches to an
// in-memory mock so the service stays usable without Airtable credentials.
func NewVendorRepo(client *adapter.Client) vendor.Repository {
	if client == nil {
		return newMockVendorRepo()
	}
	return &VendorRepo{client: client}
}

// List returns all vendor records.
func (r *VendorRepo) List(ctx context.Context) ([]vendor.Vendor, error) {
	result, err := r.client.Vendors().GetRecords().Do()
	if err != nil {
		return nil, errors.Wrap(errors.ErrRecordStore, err.Error())
	}

	vendors := make([]vendor.Vendor, 0, len(result.Records))
	for _, rec := range result.Records {
		vendors = append(vendors, vendorFromRecord(rec))
	}
	return vendors, nil
}

// Create adds a new vendor record.
func (r *VendorRepo) Create(ctx context.Context, input vendor.CreateInput) (*vendor.Vendor, error) {
	fields := map[string]interface{}{
		"Name": input.Name,
	}
	if input.Website != "" {
		fields["Website"] = input.Website
	}
	if input.Description != "" {
		fields["Description"] = input.Description
	}
	if input.Criticality != "" {
		fields["Criticality"] = input.Criticality
	}
	if input.Spend > 0 {
		fields["Spend"] = input.Spend
	}
	if input.DataSensitivity != "" {
		fields["Data Sensitivity"] = input.DataSensitivity
	}

	result, err := r.client.Vendors().AddRecords(&airtable.Records{
		Records: []*airtable.Record{{Fields: fields}},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrRecordStore, err.Error())
	}
	if len(result.Records) == 0 {
		return nil, errors.Wrap(errors.ErrRecordStore, "no record returned on create")
	}

	v := vendorFromRecord(result.Records[0])
	return &v, nil
}

// UpdateRisk writes the assessment outcome back onto the vendor record.
func (r *VendorRepo) UpdateRisk(ctx context.Context, id string, score int, level string, assessedAt string) error {
	rec, err := r.client.Vendors().GetRecord(id)
	if err != nil {
		return errors.Wrapf(errors.ErrRecordStore, "get vendor %s: %v", id, err)
	}

	_, err = rec.UpdateRecordPartial(map[string]interface{}{
		"Risk Score":    score,
		"Risk Level":    level,
		"Last Assessed": assessedAt,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrRecordStore, "update vendor %s: %v", id, err)
	}
	return nil
}
