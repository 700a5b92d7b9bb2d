// Package refdata holds the immutable reference tables behind identity
// generation: census surname weights, administrative division codes,
// age-gated probability tables, and the numeric generation rules.
//
// Tables are loaded once at startup and never mutated afterwards. A
// missing data file degrades to an empty table (generators carry a
// documented default for every table they consume), while a malformed
// file is a fatal configuration error.
package refdata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// NameTable holds surname and given-name pools.
type NameTable struct {
	Surnames       []string  `yaml:"surnames"`
	SurnameWeights []float64 `yaml:"surname_weights"`
	MaleChars      []string  `yaml:"male_chars"`
	FemaleChars    []string  `yaml:"female_chars"`
}

// GeoTable holds the province → city → district hierarchy plus street
// and building name pools. Codes follow GB/T 2260: two digits per level.
type GeoTable struct {
	Provinces     map[string]string            `yaml:"provinces"`
	Cities        map[string]map[string]string `yaml:"cities"`
	Districts     map[string][]string          `yaml:"districts"`
	StreetNames   []string                     `yaml:"street_names"`
	BuildingNames []string                     `yaml:"building_names"`
}

// CompanyTable holds company name fragments and legal-form suffixes.
type CompanyTable struct {
	NameWords []string `yaml:"company_name_words"`
	Types     []string `yaml:"company_types"`
}

// Ethnicity is one of the 56 recognized groups with its population share.
type Ethnicity struct {
	Name            string  `yaml:"name"`
	PopulationRatio float64 `yaml:"population_ratio"`
}

// EducationLevel is an age-gated education tier.
type EducationLevel struct {
	Level       string  `yaml:"level"`
	MinAge      int     `yaml:"min_age"`
	MaxAge      int     `yaml:"max_age"`
	Probability float64 `yaml:"probability"`
}

// EducationTable holds the tier list and the major pool.
type EducationTable struct {
	Levels []EducationLevel `yaml:"education_levels"`
	Majors []string         `yaml:"majors"`
}

// PoliticalStatus is an age-gated political affiliation.
type PoliticalStatus struct {
	Status      string  `yaml:"status"`
	MinAge      int     `yaml:"min_age"`
	MaxAge      int     `yaml:"max_age"`
	Probability float64 `yaml:"probability"`
}

// MaritalStatus carries per-age-bracket probabilities, keyed by
// "min-max" strings like "18-25".
type MaritalStatus struct {
	Status           string             `yaml:"status"`
	ProbabilityByAge map[string]float64 `yaml:"probability_by_age"`
}

// BloodType is a blood group with its population probability.
type BloodType struct {
	Type        string  `yaml:"type"`
	Probability float64 `yaml:"probability"`
}

// Carrier is a mobile carrier with market-share weight and its prefixes.
type Carrier struct {
	Name     string   `yaml:"name"`
	Weight   float64  `yaml:"weight"`
	Prefixes []string `yaml:"prefixes"`
}

// ZodiacSign is one western zodiac (month,day) range. The Capricorn
// range wraps the year boundary and is handled by the lookup.
type ZodiacSign struct {
	Name       string `yaml:"name"`
	StartMonth int    `yaml:"start_month"`
	StartDay   int    `yaml:"start_day"`
	EndMonth   int    `yaml:"end_month"`
	EndDay     int    `yaml:"end_day"`
}

// HeightProfile parameterizes the gender-specific height distribution.
type HeightProfile struct {
	Mean float64 `yaml:"mean"`
	Std  float64 `yaml:"std"`
	Min  int     `yaml:"min"`
	Max  int     `yaml:"max"`
}

// Religion is a belief with its population probability.
type Religion struct {
	Name        string  `yaml:"name"`
	Probability float64 `yaml:"probability"`
}

// QQLength is one candidate QQ-number length with its draw weight and
// value range.
type QQLength struct {
	Length int     `yaml:"length"`
	Weight float64 `yaml:"weight"`
	Min    int64   `yaml:"min"`
	Max    int64   `yaml:"max"`
}

// Rules bundles every numeric knob the generators consume.
type Rules struct {
	Address struct {
		DefaultCityCode string   `yaml:"default_city_code"`
		DefaultDistrict string   `yaml:"default_district"`
		DefaultAreaCode string   `yaml:"default_area_code"`
		Municipalities  []string `yaml:"municipalities"`
	} `yaml:"address"`

	StreetNumber struct {
		NumberRange         [2]int  `yaml:"number_range"`
		UnitRange           [2]int  `yaml:"unit_range"`
		RoomRange           [2]int  `yaml:"room_range"`
		BuildingRange       [2]int  `yaml:"building_range"`
		BuildingUnitRange   [2]int  `yaml:"building_unit_range"`
		UnitProbability     float64 `yaml:"unit_probability"`
		BuildingProbability float64 `yaml:"building_probability"`
	} `yaml:"street_number"`

	Education struct {
		DefaultLevel string   `yaml:"default_level"`
		MajorLevels  []string `yaml:"major_levels"`
	} `yaml:"education"`

	BloodType struct {
		DefaultType           string  `yaml:"default_type"`
		RhNegativeProbability float64 `yaml:"rh_negative_probability"`
		RhNegativeSuffix      string  `yaml:"rh_negative_suffix"`
		RhPositiveSuffix      string  `yaml:"rh_positive_suffix"`
	} `yaml:"blood_type"`

	Height map[string]HeightProfile `yaml:"height"`

	Weight struct {
		MinBMI        float64 `yaml:"min_bmi"`
		MaxBMI        float64 `yaml:"max_bmi"`
		MaleAdjustMin float64 `yaml:"male_adjust_min"`
		MaleAdjustMax float64 `yaml:"male_adjust_max"`
	} `yaml:"weight"`

	BankCard struct {
		BINs             []string `yaml:"bins"`
		RemainingLengths []int    `yaml:"remaining_lengths"`
	} `yaml:"bank_card"`

	SocialCredit struct {
		AuthorityCodes []string `yaml:"authority_codes"`
		OrgTypes       []string `yaml:"org_types"`
		Chars          string   `yaml:"chars"`
		Weights        []int    `yaml:"weights"`
	} `yaml:"social_credit"`

	WeChat struct {
		WxidCharset     string   `yaml:"wxid_charset"`
		WxidLength      int      `yaml:"wxid_length"`
		Prefixes        []string `yaml:"prefixes"`
		SurnamePrefixes []string `yaml:"surname_prefixes"`
		Adjectives      []string `yaml:"adjectives"`
		Concepts        []string `yaml:"concepts"`
	} `yaml:"wechat"`

	QQ struct {
		Lengths []QQLength `yaml:"lengths"`
	} `yaml:"qq"`

	LicensePlate struct {
		Provinces            []string `yaml:"provinces"`
		ExcludedLetters      []string `yaml:"excluded_letters"`
		NewEnergyProbability float64  `yaml:"new_energy_probability"`
		NewEnergyTypes       []string `yaml:"new_energy_types"`
	} `yaml:"license_plate"`

	Phone struct {
		Carriers []Carrier `yaml:"carriers"`
	} `yaml:"phone"`

	Email struct {
		Domains        []string `yaml:"domains"`
		PinyinPrefixes []string `yaml:"pinyin_prefixes"`
	} `yaml:"email"`

	Username struct {
		Prefixes []string `yaml:"prefixes"`
	} `yaml:"username"`

	Zodiac struct {
		Signs       []ZodiacSign `yaml:"signs"`
		DefaultSign string       `yaml:"default_sign"`
	} `yaml:"zodiac"`

	ChineseZodiac struct {
		Animals  []string `yaml:"animals"`
		BaseYear int      `yaml:"base_year"`
	} `yaml:"chinese_zodiac"`

	Religions []Religion `yaml:"religions"`

	Hobbies map[string][]string `yaml:"hobbies"`

	EmergencyRelations []string `yaml:"emergency_relations"`
}

// Store is the full set of reference tables. Read-only after Load.
type Store struct {
	Names       NameTable
	Geo         GeoTable
	AreaCodes   map[string]map[string]string
	JobTitles   []string
	Companies   CompanyTable
	Ethnicities []Ethnicity
	Education   EducationTable
	Political   []PoliticalStatus
	Marital     []MaritalStatus
	BloodTypes  []BloodType
	Rules       Rules
}

// file name → destination within the store. Each file is optional.
const (
	namesFile       = "names.yaml"
	geoFile         = "geo.yaml"
	areaCodesFile   = "area_codes.yaml"
	jobsFile        = "jobs.yaml"
	companiesFile   = "companies.yaml"
	ethnicitiesFile = "ethnicities.yaml"
	educationFile   = "education.yaml"
	politicalFile   = "political.yaml"
	maritalFile     = "marital.yaml"
	medicalFile     = "medical.yaml"
	rulesFile       = "rules.yaml"
)

// Load reads all reference tables from fsys. A missing file leaves the
// corresponding table empty; a file that exists but fails to parse is
// an error.
func Load(fsys fs.FS) (*Store, error) {
	s := &Store{}

	var jobs struct {
		Jobs []string `yaml:"jobs"`
	}
	var ethnicities struct {
		Ethnicities []Ethnicity `yaml:"ethnicities"`
	}
	var political struct {
		Statuses []PoliticalStatus `yaml:"political_statuses"`
	}
	var marital struct {
		Statuses []MaritalStatus `yaml:"marital_statuses"`
	}
	var medical struct {
		BloodTypes []BloodType `yaml:"blood_types"`
	}

	steps := []struct {
		file string
		dst  any
	}{
		{namesFile, &s.Names},
		{geoFile, &s.Geo},
		{areaCodesFile, &s.AreaCodes},
		{jobsFile, &jobs},
		{companiesFile, &s.Companies},
		{ethnicitiesFile, &ethnicities},
		{educationFile, &s.Education},
		{politicalFile, &political},
		{maritalFile, &marital},
		{medicalFile, &medical},
		{rulesFile, &s.Rules},
	}

	for _, step := range steps {
		if err := loadFile(fsys, step.file, step.dst); err != nil {
			return nil, err
		}
	}

	s.JobTitles = jobs.Jobs
	s.Ethnicities = ethnicities.Ethnicities
	s.Political = political.Statuses
	s.Marital = marital.Statuses
	s.BloodTypes = medical.BloodTypes

	return s, nil
}

// Default returns the store built from the embedded data files.
func Default() (*Store, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("embedded data: %w", err)
	}
	return Load(sub)
}

func loadFile(fsys fs.FS, name string, dst any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	return nil
}
