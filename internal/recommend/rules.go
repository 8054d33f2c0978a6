// Package recommend turns a canonical analysis record and a product
// catalog into a deterministic, diversity-constrained recommendation
// list. All scoring weights live in the fixed rule tables below; scoring
// is hand-tuned, not learned, so given the same record and catalog the
// output is byte-for-byte reproducible.
package recommend

import "github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"

// RulesVersion identifies the revision of the scoring rule tables.
// Bump it whenever a weight or keyword changes so stored or logged
// recommendations can be traced to the rules that produced them.
const RulesVersion = "2026-08"

// award grants fixed points to a product when it matches: the category
// must equal Category (empty matches any), and when DescAny is set the
// product description must contain at least one of its entries.
type award struct {
	Category domain.Category
	DescAny  []string
	Points   int
	Reason   string
}

// conditionRule fires once per detected condition whose lowercased name
// contains any of the trigger substrings. Each award is evaluated
// independently against the product.
type conditionRule struct {
	Triggers []string
	Awards   []award
}

// conditionRules is the condition-keyword table. Order determines the
// order of reason fragments, not the sum.
var conditionRules = []conditionRule{
	{
		Triggers: []string{"acne", "breakout"},
		Awards: []award{
			{Category: domain.CategoryCleanser, Points: 9, Reason: "gentle cleansing for acne-prone skin"},
			{Category: domain.CategoryTreatment, DescAny: []string{"salicylic"}, Points: 10, Reason: "salicylic acid targets active breakouts"},
			{DescAny: []string{"gentle", "non-comedogenic"}, Points: 4, Reason: "gentle, non-comedogenic formula"},
		},
	},
	{
		Triggers: []string{"dark_spot", "dark spot", "pigmentation", "melasma"},
		Awards: []award{
			{Category: domain.CategoryTreatment, DescAny: []string{"vitamin c", "niacinamide"}, Points: 10, Reason: "brightening actives fade dark spots"},
			{Category: domain.CategorySerum, DescAny: []string{"brightening"}, Points: 8, Reason: "brightening serum for even tone"},
		},
	},
	{
		Triggers: []string{"pore"},
		Awards: []award{
			{Category: domain.CategoryCleanser, DescAny: []string{"deep"}, Points: 8, Reason: "deep cleansing for congested pores"},
			{DescAny: []string{"pore", "refining"}, Points: 7, Reason: "pore-refining formula"},
		},
	},
	{
		Triggers: []string{"redness", "rosacea"},
		Awards: []award{
			{DescAny: []string{"calming", "soothing"}, Points: 9, Reason: "calming care for visible redness"},
			{DescAny: []string{"gentle", "fragrance-free", "hypoallergenic"}, Points: 6, Reason: "gentle formula for reactive skin"},
		},
	},
	{
		Triggers: []string{"sensitive", "irritated"},
		Awards: []award{
			{DescAny: []string{"calming", "soothing"}, Points: 8, Reason: "soothing relief for sensitive skin"},
			{DescAny: []string{"gentle", "fragrance-free", "hypoallergenic"}, Points: 6, Reason: "gentle formula for reactive skin"},
		},
	},
	{
		Triggers: []string{"dry", "dehydrated", "flaky"},
		Awards: []award{
			{Category: domain.CategoryMoisturizer, DescAny: []string{"hydrating"}, Points: 9, Reason: "hydrating moisture for dry skin"},
			{Category: domain.CategorySerum, DescAny: []string{"hyaluronic"}, Points: 8, Reason: "hyaluronic acid replenishes hydration"},
		},
	},
	{
		Triggers: []string{"wrinkle", "aging", "fine line"},
		Awards: []award{
			{Category: domain.CategorySerum, DescAny: []string{"retinol"}, Points: 10, Reason: "retinol targets fine lines"},
			{Category: domain.CategoryMoisturizer, DescAny: []string{"anti-aging"}, Points: 8, Reason: "anti-aging moisture support"},
		},
	},
	{
		Triggers: []string{"sun damage", "uv damage"},
		Awards: []award{
			{Category: domain.CategorySunscreen, Points: 10, Reason: "daily protection against further sun damage"},
			{DescAny: []string{"repair", "recovery"}, Points: 6, Reason: "repair support for sun-stressed skin"},
		},
	},
}

// healthBucket grants category points based on the record's health
// score. Buckets are mutually exclusive; bounds are inclusive.
type healthBucket struct {
	Min, Max int
	Awards   []award
}

// healthBuckets routes low-scoring skin toward treatment and cleansing
// and healthy skin toward protection and maintenance. The lowest bucket
// grants treatment and cleanser only; serum joins at the middle buckets.
var healthBuckets = []healthBucket{
	{Min: 0, Max: 29, Awards: []award{
		{Category: domain.CategoryTreatment, Points: 10, Reason: "intensive treatment for skin needing extra care"},
		{Category: domain.CategoryCleanser, Points: 6, Reason: "thorough cleansing as a reset"},
	}},
	{Min: 30, Max: 49, Awards: []award{
		{Category: domain.CategoryTreatment, Points: 8, Reason: "targeted treatment support"},
		{Category: domain.CategorySerum, Points: 8, Reason: "active serum support"},
		{Category: domain.CategoryMoisturizer, Points: 6, Reason: "barrier-restoring hydration"},
	}},
	{Min: 50, Max: 69, Awards: []award{
		{Category: domain.CategoryMoisturizer, Points: 7, Reason: "maintenance hydration"},
		{Category: domain.CategorySunscreen, Points: 7, Reason: "protection to preserve progress"},
		{Category: domain.CategorySerum, Points: 5, Reason: "light active boost"},
	}},
	{Min: 70, Max: 100, Awards: []award{
		{Category: domain.CategorySunscreen, Points: 8, Reason: "protect already-healthy skin"},
		{Category: domain.CategoryMoisturizer, Points: 6, Reason: "keep healthy skin hydrated"},
	}},
}

// baselineAwards keep essential categories visible even when no
// condition rule fires. Applied once per product.
var baselineAwards = []award{
	{Category: domain.CategoryCleanser, Points: 3, Reason: "daily cleansing essential"},
	{Category: domain.CategorySunscreen, Points: 4, Reason: "daily sun protection essential"},
	{Category: domain.CategoryMoisturizer, Points: 2, Reason: "daily hydration essential"},
}

// qualityAwards are small quality and affordability nudges.
var qualityAwards = []award{
	{DescAny: []string{"clinical", "medical-grade"}, Points: 2, Reason: "clinical-grade formulation"},
}

// affordabilityThreshold is the catalog-currency price below which a
// product earns the affordability point.
const affordabilityThreshold = 50.0
