package check

import (
	"context"
	"fmt"

	"github.com/tamilansjob/apicheck/internal/jobapi"
)

// Reference-table checks: each GET validates length, required fields on the
// first element, and the presence of well-known seeded names; each POST
// creates a sample record and verifies the echo plus server-assigned fields.

func (s *Suite) checkDistrictsGet(ctx context.Context) []jobapi.District {
	const name = "Districts GET"
	started := s.now()
	districts, status, err := s.client.ListDistricts(ctx)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	case len(districts) < s.expect.MinDistricts:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("expected at least %d districts, got %d", s.expect.MinDistricts, len(districts)), nil)
	default:
		if err := districts[0].Validate(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), districts[0])
			return nil
		}
		names := make([]string, 0, len(districts))
		for _, d := range districts {
			names = append(names, d.NameEN)
		}
		if missing, ok := containsAll(names, s.expect.DistrictNames); !ok {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("expected district %q not found", missing), names)
			return nil
		}
		s.pass(ctx, name, started, status,
			fmt.Sprintf("retrieved %d districts with all required fields", len(districts)))
		return districts
	}
	return nil
}

func (s *Suite) checkDistrictsPost(ctx context.Context) {
	const name = "Districts POST"
	started := s.now()
	in := jobapi.NewDistrict{
		NameEN: "Kanyakumari",
		NameTA: "கன்னியாகுமரி",
		Slug:   "kanyakumari",
	}
	created, status, err := s.client.CreateDistrict(ctx, in)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	default:
		if err := created.ValidateCreated(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), created)
			return
		}
		if created.NameEN != in.NameEN {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("echoed name_en %q does not match submitted %q", created.NameEN, in.NameEN), created)
			return
		}
		s.pass(ctx, name, started, status, fmt.Sprintf("created district %q", created.NameEN))
	}
}

func (s *Suite) checkQualificationsGet(ctx context.Context) []jobapi.Qualification {
	const name = "Qualifications GET"
	started := s.now()
	qualifications, status, err := s.client.ListQualifications(ctx)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	case len(qualifications) < s.expect.MinQualifications:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("expected at least %d qualifications, got %d",
				s.expect.MinQualifications, len(qualifications)), nil)
	default:
		if err := qualifications[0].Validate(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), qualifications[0])
			return nil
		}
		names := make([]string, 0, len(qualifications))
		for _, q := range qualifications {
			names = append(names, q.NameEN)
		}
		if missing, ok := containsAll(names, s.expect.QualificationNames); !ok {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("expected qualification %q not found", missing), names)
			return nil
		}
		s.pass(ctx, name, started, status,
			fmt.Sprintf("retrieved %d qualifications with all required fields", len(qualifications)))
		return qualifications
	}
	return nil
}

func (s *Suite) checkQualificationsPost(ctx context.Context) {
	const name = "Qualifications POST"
	started := s.now()
	in := jobapi.NewQualification{
		NameEN: "M.Tech",
		NameTA: "எம்.டெக்",
		Slug:   "mtech",
		Order:  8,
	}
	created, status, err := s.client.CreateQualification(ctx, in)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	default:
		if err := created.ValidateCreated(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), created)
			return
		}
		if created.NameEN != in.NameEN {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("echoed name_en %q does not match submitted %q", created.NameEN, in.NameEN), created)
			return
		}
		s.pass(ctx, name, started, status, fmt.Sprintf("created qualification %q", created.NameEN))
	}
}

func (s *Suite) checkCategoriesGet(ctx context.Context) []jobapi.Category {
	const name = "Categories GET"
	started := s.now()
	categories, status, err := s.client.ListCategories(ctx)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	case len(categories) < s.expect.MinCategories:
		s.fail(ctx, name, started, status,
			fmt.Sprintf("expected at least %d categories, got %d", s.expect.MinCategories, len(categories)), nil)
	default:
		if err := categories[0].Validate(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), categories[0])
			return nil
		}
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.NameEN)
		}
		if missing, ok := containsAll(names, s.expect.CategoryNames); !ok {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("expected category %q not found", missing), names)
			return nil
		}
		s.pass(ctx, name, started, status,
			fmt.Sprintf("retrieved %d categories with all required fields", len(categories)))
		return categories
	}
	return nil
}

func (s *Suite) checkCategoriesPost(ctx context.Context) {
	const name = "Categories POST"
	started := s.now()
	in := jobapi.NewCategory{
		NameEN: "Railway",
		NameTA: "ரயில்வே",
		Slug:   "railway",
		Sector: "central",
	}
	created, status, err := s.client.CreateCategory(ctx, in)
	switch {
	case err != nil:
		s.fail(ctx, name, started, status, err.Error(), nil)
	default:
		if err := created.ValidateCreated(); err != nil {
			s.fail(ctx, name, started, status, err.Error(), created)
			return
		}
		if created.NameEN != in.NameEN {
			s.fail(ctx, name, started, status,
				fmt.Sprintf("echoed name_en %q does not match submitted %q", created.NameEN, in.NameEN), created)
			return
		}
		s.pass(ctx, name, started, status, fmt.Sprintf("created category %q", created.NameEN))
	}
}
