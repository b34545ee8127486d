package wrangle

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cartotaco/models"
)

// Section names on the joined entity, matching the backend table names.
const (
	SectionSite              = "site"
	SectionDescriptions      = "descriptions"
	SectionMenu              = "menu"
	SectionHours             = "hours"
	SectionSalsa             = "salsa"
	SectionProtein           = "protein"
	SectionSpecialtyItems    = "specialty_items"
	SectionSpecialtyProteins = "specialty_proteins"
	SectionSpecialtySalsas   = "specialty_salsas"
)

// RequiredSections must all be present for an entity to produce a view
// model; partial data is dropped, never rendered partially.
var RequiredSections = []string{
	SectionSite,
	SectionDescriptions,
	SectionMenu,
	SectionHours,
	SectionSalsa,
	SectionProtein,
}

// Derive builds the ProcessedSite view models from joined entities.
// Entities with missing required sections, or whose derivation fails, are
// excluded with a logged cause; one bad entity never aborts the batch.
func Derive(entities []JoinedEntity, log *zap.Logger) []models.ProcessedSite {
	if log == nil {
		log = zap.NewNop()
	}

	out := make([]models.ProcessedSite, 0, len(entities))
	for _, entity := range entities {
		site, err := deriveOne(entity)
		if err != nil {
			log.Warn("excluding establishment from derived view",
				zap.Int64("est_id", entity.EstID),
				zap.Error(err))
			continue
		}
		out = append(out, site)
	}
	return out
}

func deriveOne(entity JoinedEntity) (site models.ProcessedSite, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("derivation panic: %v", r)
		}
	}()

	for _, name := range RequiredSections {
		if !entity.Has(name) {
			return site, fmt.Errorf("missing required section %q", name)
		}
	}

	siteRec := entity.Section(SectionSite)
	descRec := entity.Section(SectionDescriptions)
	menuRec := entity.Section(SectionMenu)
	hoursRec := entity.Section(SectionHours)
	salsaRec := entity.Section(SectionSalsa)
	proteinRec := entity.Section(SectionProtein)

	menuPercs := scaleToPercent(FilterByKeySubstring(menuRec, "perc"))
	proteinPercs := scaleToPercent(FilterByKeySubstring(proteinRec, "perc"))

	site = models.ProcessedSite{
		EstID:     entity.EstID,
		Name:      CoerceString(siteRec["name"]),
		Type:      CoerceString(siteRec["type"]),
		Latitude:  CoerceFloat(siteRec["latitude"]),
		Longitude: CoerceFloat(siteRec["longitude"]),
		CreatedAt: CoerceTime(siteRec["created_at"]),

		ShortDescription: CoerceString(descRec["short_description"]),
		LongDescription:  CoerceString(descRec["long_description"]),

		StartHours: subMapping(hoursRec, "start"),
		EndHours:   subMapping(hoursRec, "end"),

		MenuPercentages:    menuPercs,
		TopMenuItems:       TopFive(menuPercs),
		ProteinPercentages: proteinPercs,
		TopProteins:        TopFive(proteinPercs),
		ProteinYes:         proteinFlags(proteinRec),

		SalsaCount:  int(CoerceFloat(salsaRec["num_salsas"])),
		HeatOverall: CoerceFloat(salsaRec["heat_overall"]),

		Specialties: collectSpecialties(entity),
	}
	return site, nil
}

// scaleToPercent converts fractional composition values to percentages.
func scaleToPercent(pairs []models.LabeledValue) []models.LabeledValue {
	out := make([]models.LabeledValue, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, models.LabeledValue{Label: p.Label, Value: p.Value * 100})
	}
	return out
}

// subMapping extracts the keys of rec containing substring, as strings.
func subMapping(rec models.RawRecord, substring string) map[string]string {
	pairsToKeep := FilterByKeySubstring(rec, substring)
	out := make(map[string]string, len(pairsToKeep))
	for _, p := range pairsToKeep {
		out[p.Label] = CoerceString(rec[p.Label])
	}
	return out
}

// proteinFlags maps each *_yes availability column to its truthiness,
// keyed by the bare protein name.
func proteinFlags(rec models.RawRecord) map[string]bool {
	out := make(map[string]bool)
	for k, v := range rec {
		name, found := strings.CutSuffix(k, "_yes")
		if !found || name == "" {
			continue
		}
		out[name] = CoerceBool(v)
	}
	return out
}

var specialtySections = []struct {
	section  string
	category models.SpecialtyCategory
}{
	{SectionSpecialtyItems, models.SpecialtyItem},
	{SectionSpecialtyProteins, models.SpecialtyProtein},
	{SectionSpecialtySalsas, models.SpecialtySalsa},
}

func collectSpecialties(entity JoinedEntity) []models.Specialty {
	var out []models.Specialty
	for _, src := range specialtySections {
		for _, row := range entity.Rows(src.section) {
			out = append(out, models.Specialty{
				Category:    src.category,
				Name:        CoerceString(row["name"]),
				Description: CoerceString(row["description"]),
			})
		}
	}
	return out
}

// DeriveSummary reads the site-wide aggregate row. No row means all zeros.
func DeriveSummary(records []models.RawRecord) models.SummaryStats {
	if len(records) == 0 {
		return models.SummaryStats{}
	}
	rec := records[0]
	return models.SummaryStats{
		MaxSalsas: CoerceFloat(rec["max_salsas"]),
		AvgSalsas: CoerceFloat(rec["avg_salsas"]),
		MaxHeat:   CoerceFloat(rec["max_heat"]),
		AvgHeat:   CoerceFloat(rec["avg_heat"]),
	}
}
