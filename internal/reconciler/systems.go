// internal/reconciler/systems.go
package reconciler

import "fuelmap/internal/model"

// Canonical target taxonomy: Anderson Fire Behavior Fuel Models.
const CanonicalSystem = "FBFM40"

const (
	SystemSentinel = "SENTINEL_FUEL_2024"
	SystemLandfire = "LANDFIRE_US"
	SystemEsriLULC = "ESRI_LULC_2023"
	SystemUnknown  = "UNKNOWN"
)

type ClassInfo struct {
	Name  string `json:"name"`
	Group string `json:"group"`
	Load  string `json:"load"`
}

// System describes one known classification system and, for non-canonical
// systems, its static mapping table onto FBFM40.
type System struct {
	Description string                     `json:"description"`
	Source      string                     `json:"source,omitempty"`
	Canonical   bool                       `json:"is_canonical"`
	Classes     map[int]ClassInfo          `json:"-"`
	Mappings    map[int]model.MappingEntry `json:"-"`
}

func knownSystems() map[string]System {
	return map[string]System{
		CanonicalSystem: {
			Description: "Anderson Fire Behavior Fuel Models (40 classes)",
			Canonical:   true,
			Classes: map[int]ClassInfo{
				1:  {"Short Grass (1 ft)", "grass", "low"},
				2:  {"Timber (Grass and Understory)", "grass", "low"},
				3:  {"Tall Grass (2.5 ft)", "grass", "low"},
				4:  {"Chaparral (6 ft)", "chaparral", "moderate"},
				5:  {"Brush (2 ft)", "shrub", "low"},
				6:  {"Dormant Brush, Hardwood Slash", "shrub", "moderate"},
				7:  {"Southern Rough", "shrub", "moderate"},
				8:  {"Closed Timber Litter", "timber", "low"},
				9:  {"Hardwood Litter", "timber", "moderate"},
				10: {"Timber (Litter and Understory)", "timber", "moderate"},
				11: {"Light Logging Slash", "slash", "low"},
				12: {"Medium Logging Slash", "slash", "moderate"},
				13: {"Heavy Logging Slash", "slash", "high"},
				14: {"Low Load, Dry Climate Shrub", "shrub", "low"},
				15: {"High Load, Dry Climate Shrub", "shrub", "high"},
				91: {"Urban or Developed", "non-burnable", "none"},
				92: {"Snow or Ice", "non-burnable", "none"},
				93: {"Agriculture", "non-burnable", "none"},
				98: {"Water", "non-burnable", "none"},
				99: {"Barren or Sparsely Vegetated", "non-burnable", "none"},
				102: {"Low Load Grass", "grass", "low"},
				121: {"Low Load Grass-Shrub", "grass-shrub", "low"},
				183: {"Moderate Load Conifer Litter", "timber", "moderate"},
			},
		},

		SystemSentinel: {
			Description: "Sentinel-derived fuel classification 2024",
			Source:      "Satellite-derived",
			Mappings: map[int]model.MappingEntry{
				1:   {Target: 1, Confidence: 0.95, Rationale: "spectral_similarity"},
				2:   {Target: 2, Confidence: 0.87, Rationale: "vegetation_structure"},
				3:   {Target: 3, Confidence: 0.91, Rationale: "height_analysis"},
				4:   {Target: 4, Confidence: 0.82, Rationale: "density_classification"},
				5:   {Target: 5, Confidence: 0.89, Rationale: "canopy_cover"},
				10:  {Target: 14, Confidence: 0.91, Rationale: "climate_adjusted"},
				11:  {Target: 15, Confidence: 0.88, Rationale: "load_estimation"},
				20:  {Target: 8, Confidence: 0.89, Rationale: "forest_type"},
				21:  {Target: 9, Confidence: 0.85, Rationale: "deciduous_classification"},
				22:  {Target: 10, Confidence: 0.87, Rationale: "mixed_forest"},
				30:  {Target: 11, Confidence: 0.75, Rationale: "disturbance_detection"},
				31:  {Target: 12, Confidence: 0.78, Rationale: "slash_estimation"},
				100: {Target: 91, Confidence: 0.98, Rationale: "land_use_classification"},
				101: {Target: 93, Confidence: 0.96, Rationale: "agricultural_masking"},
				102: {Target: 98, Confidence: 0.99, Rationale: "water_detection"},
				103: {Target: 99, Confidence: 0.94, Rationale: "bare_soil_classification"},
			},
		},

		SystemLandfire: {
			Description: "LANDFIRE Fuel Model data (US)",
			Source:      "USGS/USFS",
			Mappings: map[int]model.MappingEntry{
				101: {Target: 1, Confidence: 0.93, Rationale: "direct_correspondence"},
				102: {Target: 2, Confidence: 0.88, Rationale: "vegetation_type"},
				103: {Target: 3, Confidence: 0.91, Rationale: "grass_height"},
				104: {Target: 4, Confidence: 0.89, Rationale: "shrub_density"},
				105: {Target: 5, Confidence: 0.87, Rationale: "brush_classification"},
				106: {Target: 6, Confidence: 0.85, Rationale: "dormant_vegetation"},
				107: {Target: 7, Confidence: 0.83, Rationale: "southern_vegetation"},
				108: {Target: 8, Confidence: 0.92, Rationale: "forest_floor"},
				109: {Target: 9, Confidence: 0.89, Rationale: "hardwood_litter"},
				110: {Target: 10, Confidence: 0.91, Rationale: "understory_analysis"},
				201: {Target: 14, Confidence: 0.85, Rationale: "climate_classification"},
				202: {Target: 15, Confidence: 0.87, Rationale: "shrub_load_analysis"},
				301: {Target: 11, Confidence: 0.78, Rationale: "logging_history"},
				302: {Target: 12, Confidence: 0.81, Rationale: "slash_density"},
				303: {Target: 13, Confidence: 0.84, Rationale: "heavy_disturbance"},
				901: {Target: 91, Confidence: 0.97, Rationale: "urban_classification"},
				902: {Target: 92, Confidence: 0.99, Rationale: "snow_ice_detection"},
				903: {Target: 93, Confidence: 0.95, Rationale: "agricultural_land"},
				998: {Target: 98, Confidence: 0.99, Rationale: "water_body_detection"},
				999: {Target: 99, Confidence: 0.92, Rationale: "barren_land"},
			},
		},

		SystemEsriLULC: {
			Description: "ESRI 10m Annual Land Use Land Cover",
			Source:      "ESRI/Impact Observatory",
			Mappings: map[int]model.MappingEntry{
				1:  {Target: 98, Confidence: 0.95, Rationale: "Perfect match: Water -> Water"},
				2:  {Target: 183, Confidence: 0.55, Rationale: "Uncertain: Trees could be various forest types"},
				4:  {Target: 121, Confidence: 0.60, Rationale: "Moderate: Flooded vegetation -> Mixed grass-shrub"},
				5:  {Target: 102, Confidence: 0.75, Rationale: "Good: Crops behave like grass fuels"},
				7:  {Target: 91, Confidence: 0.90, Rationale: "Excellent: Built area -> Urban"},
				8:  {Target: 99, Confidence: 0.85, Rationale: "Good: Bare ground -> Barren"},
				9:  {Target: 92, Confidence: 0.95, Rationale: "Perfect match: Snow/Ice -> Snow/Ice"},
				10: {Target: 183, Confidence: 0.20, Rationale: "Very uncertain: Clouds -> Default assumption"},
				11: {Target: 102, Confidence: 0.70, Rationale: "Good: Rangeland -> Grass fuels"},
			},
		},
	}
}
