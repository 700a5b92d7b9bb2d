package identity

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zarlcorp/zident/internal/refdata"
)

const (
	genderMale   = "男"
	genderFemale = "女"
	countryChina = "中国"

	minAge = 18
	maxAge = 70

	// Name pattern: single-character given names ~30%, double ~65%,
	// the rest triple.
	singleGivenProb = 0.30
	doubleGivenProb = 0.65

	// Surnames past the weight table get exponentially decaying
	// synthetic weight: surnameTailBase * surnameTailDecay^i.
	surnameTailBase  = 0.0005
	surnameTailDecay = 0.98

	qqEmailPhoneProb = 0.5
)

// Fallbacks used when the corresponding reference table is empty.
const (
	defaultSurname         = "王"
	defaultMaleGivenChar   = "伟"
	defaultFemaleGivenChar = "芳"

	defaultProvinceCode = "11"
	defaultProvince     = "北京市"
	defaultCityCode     = "01"
	defaultDistrict     = "市辖区"
	defaultAreaSuffix   = "01"
	defaultStreetName   = "人民路"

	defaultCarrierPrefix   = "138"
	defaultEmailDomain     = "qq.com"
	defaultUsernamePrefix  = "user"
	defaultJobTitle        = "职员"
	defaultCompanyWord     = "华信"
	defaultCompanyType     = "有限公司"
	defaultEthnicity       = "汉族"
	defaultEducationLevel  = "初中"
	defaultPoliticalStatus = "群众"
	defaultMaritalStatus   = "未婚"
	defaultBloodType       = "O型"
	defaultRhNegSuffix     = "(RH阴性)"
	defaultRhNegProb       = 0.005
	defaultBankBIN         = "622202"
	defaultWxidCharset     = "abcdefghijklmnopqrstuvwxyz0123456789"
	defaultWxidLength      = 12
	defaultPlateProvince   = "京"
	defaultPlateEnergyProb = 0.15
	defaultHobby           = "阅读"
	defaultReligion        = "无宗教信仰"
	defaultRelation        = "朋友"

	defaultSocialCreditChars = "0123456789ABCDEFGHJKLMNPQRTUWXY"

	defaultMinBMI = 18.5
	defaultMaxBMI = 26.0

	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
)

var defaultSocialCreditWeights = []int{1, 3, 9, 27, 19, 26, 16, 17, 20, 29, 25, 13, 8, 24, 10, 30, 28}

var defaultHeightProfiles = map[string]refdata.HeightProfile{
	"male":   {Mean: 169, Std: 6, Min: 155, Max: 195},
	"female": {Mean: 158, Std: 5, Min: 145, Max: 180},
}

var defaultBankCardLengths = []int{10, 11, 12}

// Generator draws identity records from a single random stream over an
// immutable table set. Not safe for concurrent use: all draws for a
// batch must consume the stream in a fixed order.
type Generator struct {
	tables *refdata.Store
	rnd    *rand.Rand
	now    func() time.Time

	// map-backed tables get a sorted key order at construction so
	// draws stay deterministic under a fixed seed.
	provinceCodes  []string
	cityCodes      map[string][]string
	surnameWeights []float64
	hobbyPool      []string
	plateLetters   string
}

// NewGenerator builds a generator over tables. A nil seed starts the
// stream from OS entropy; a seed makes every run byte-identical.
func NewGenerator(tables *refdata.Store, seed *uint64) *Generator {
	g := &Generator{
		tables:    tables,
		rnd:       newRand(seed),
		now:       time.Now,
		cityCodes: make(map[string][]string, len(tables.Geo.Cities)),
	}

	g.provinceCodes = sortedKeys(tables.Geo.Provinces)
	for prov, cities := range tables.Geo.Cities {
		g.cityCodes[prov] = sortedKeys(cities)
	}

	g.surnameWeights = buildSurnameWeights(tables.Names)

	for _, category := range sortedKeys(tables.Rules.Hobbies) {
		g.hobbyPool = append(g.hobbyPool, tables.Rules.Hobbies[category]...)
	}

	g.plateLetters = buildPlateLetters(tables.Rules.LicensePlate.ExcludedLetters)

	return g
}

// Generate assembles one record restricted to cfg's effective field
// set. Fields outside the set are never computed. The config must have
// passed Validate; the only runtime errors are invalid fixed-width
// inputs inside the checksum generators, which indicate a wiring bug.
func (g *Generator) Generate(cfg Config) (Identity, error) {
	fields := cfg.EffectiveFields()
	var id Identity

	// Gender is the seed decision: it gates ID-number parity, name
	// pools, and the height distribution.
	gender := g.genGender()
	if fields[FieldGender] {
		id.Gender = gender
	}

	var bundle addressBundle
	if needsAddress(fields) {
		bundle = g.genAddress()
		if fields[FieldAddress] {
			id.Address = bundle.full
		}
		if fields[FieldCity] {
			id.City = bundle.city
		}
		if fields[FieldState] {
			id.State = bundle.province
		}
		if fields[FieldZipcode] {
			id.Zipcode = bundle.zipcode
		}
	}

	var birth time.Time
	age := 0
	if needsBirthdate(fields) {
		birth, age = g.genBirthdate(g.now())
		if fields[FieldBirthdate] {
			id.Birthdate = birth.Format("2006-01-02")
		}
		if fields[FieldAge] {
			id.Age = age
		}
	}

	var lastName, firstName string
	if fields[FieldName] || fields[FieldFirstName] || fields[FieldLastName] {
		lastName, firstName = g.genName(gender)
		if fields[FieldName] {
			id.Name = lastName + firstName
		}
		if fields[FieldFirstName] {
			id.FirstName = firstName
		}
		if fields[FieldLastName] {
			id.LastName = lastName
		}
	}

	if fields[FieldSSN] {
		ssn, err := newIDNumber(g.rnd, birth, bundle.areaCode, gender)
		if err != nil {
			return Identity{}, fmt.Errorf("id number: %w", err)
		}
		id.SSN = ssn
	}

	if fields[FieldZodiacSign] {
		id.ZodiacSign = g.zodiacSign(birth)
	}
	if fields[FieldChineseZodiac] {
		id.ChineseZodiac = g.chineseZodiac(birth.Year())
	}
	if fields[FieldEthnicity] {
		id.Ethnicity = g.genEthnicity()
	}

	// Phone before email: QQ-domain addresses may reuse the phone.
	if fields[FieldPhone] {
		id.Phone = g.genPhone()
	}
	if fields[FieldEmail] {
		id.Email = g.genEmail(id.Phone)
	}
	if fields[FieldCountry] {
		id.Country = countryChina
	}

	if fields[FieldCompany] {
		id.Company = g.genCompany(bundle.city)
	}
	if fields[FieldJobTitle] {
		id.JobTitle = g.genJobTitle()
	}
	if fields[FieldUsername] {
		id.Username = g.genUsername()
	}
	if fields[FieldPassword] {
		id.Password = g.genPassword()
	}

	if fields[FieldEducation] || fields[FieldMajor] {
		level, major := g.genEducation(age)
		if fields[FieldEducation] {
			id.Education = level
		}
		if fields[FieldMajor] {
			id.Major = major
		}
	}
	if fields[FieldPoliticalStatus] {
		id.PoliticalStatus = g.genPoliticalStatus(age)
	}
	if fields[FieldMaritalStatus] {
		id.MaritalStatus = g.genMaritalStatus(age)
	}
	if fields[FieldBloodType] {
		id.BloodType = g.genBloodType()
	}

	if fields[FieldHeight] || fields[FieldWeight] {
		height := g.genHeight(gender)
		if fields[FieldHeight] {
			id.Height = height
		}
		if fields[FieldWeight] {
			id.Weight = g.genWeight(gender, height)
		}
	}

	if fields[FieldBankCard] {
		id.BankCard = g.genBankCard()
	}
	if fields[FieldSocialCreditCode] {
		code, err := g.genSocialCreditCode(bundle.areaCode)
		if err != nil {
			return Identity{}, fmt.Errorf("social credit code: %w", err)
		}
		id.SocialCreditCode = code
	}
	if fields[FieldWeChatID] {
		id.WeChatID = g.genWeChatID()
	}
	if fields[FieldQQNumber] {
		id.QQNumber = g.genQQNumber()
	}
	if fields[FieldLicensePlate] {
		id.LicensePlate = g.genLicensePlate()
	}
	if fields[FieldIPAddress] {
		id.IPAddress = g.genIPAddress()
	}
	if fields[FieldMACAddress] {
		id.MACAddress = g.genMACAddress()
	}

	if fields[FieldEmergencyContact] || fields[FieldEmergencyPhone] {
		contact, phone := g.genEmergency(lastName)
		if fields[FieldEmergencyContact] {
			id.EmergencyContact = contact
		}
		if fields[FieldEmergencyPhone] {
			id.EmergencyPhone = phone
		}
	}

	if fields[FieldHobbies] {
		id.Hobbies = g.genHobbies()
	}
	if fields[FieldReligion] {
		id.Religion = g.genReligion()
	}

	return id, nil
}

func needsAddress(fields map[Field]bool) bool {
	return fields[FieldAddress] || fields[FieldCity] || fields[FieldState] ||
		fields[FieldZipcode] || fields[FieldSSN] || fields[FieldSocialCreditCode]
}

func needsBirthdate(fields map[Field]bool) bool {
	return fields[FieldBirthdate] || fields[FieldAge] || fields[FieldZodiacSign] ||
		fields[FieldChineseZodiac] || fields[FieldSSN] || fields[FieldEducation] ||
		fields[FieldMajor] || fields[FieldPoliticalStatus] || fields[FieldMaritalStatus]
}

func (g *Generator) genGender() string {
	if g.rnd.IntN(2) == 0 {
		return genderMale
	}
	return genderFemale
}

// genBirthdate samples one date uniformly over the window whose ages
// fall in [minAge, maxAge], then derives the age from the date so the
// two can never disagree.
func (g *Generator) genBirthdate(now time.Time) (time.Time, int) {
	earliest := now.AddDate(-maxAge-1, 0, 1)
	latest := now.AddDate(-minAge, 0, 0)
	days := int(latest.Sub(earliest).Hours() / 24)
	birth := earliest.AddDate(0, 0, randRange(g.rnd, 0, days))
	return birth, ageAt(birth, now)
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

func (g *Generator) genName(gender string) (lastName, firstName string) {
	lastName = defaultSurname
	if len(g.tables.Names.Surnames) > 0 {
		if i := weightedIndex(g.rnd, g.surnameWeights); i >= 0 {
			lastName = g.tables.Names.Surnames[i]
		}
	}

	pool := g.tables.Names.MaleChars
	fallback := defaultMaleGivenChar
	if gender == genderFemale {
		pool = g.tables.Names.FemaleChars
		fallback = defaultFemaleGivenChar
	}

	n := 2
	switch p := g.rnd.Float64(); {
	case p < singleGivenProb:
		n = 1
	case p < singleGivenProb+doubleGivenProb:
		n = 2
	default:
		n = 3
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		ch, ok := choice(g.rnd, pool)
		if !ok {
			ch = fallback
		}
		b.WriteString(ch)
	}
	return lastName, b.String()
}

// addressBundle carries one address draw shared by every
// address-derived field of a record.
type addressBundle struct {
	province string
	city     string
	district string
	full     string
	areaCode string
	zipcode  string
}

func (g *Generator) genAddress() addressBundle {
	geo := g.tables.Geo
	rules := g.tables.Rules.Address

	provCode, province := defaultProvinceCode, defaultProvince
	if len(g.provinceCodes) > 0 {
		provCode = g.provinceCodes[g.rnd.IntN(len(g.provinceCodes))]
		province = geo.Provinces[provCode]
	}

	// Direct-administered municipalities act as their own city. The
	// rules table names them explicitly; a province with no city table
	// is treated the same way.
	cityCode := rules.DefaultCityCode
	if cityCode == "" {
		cityCode = defaultCityCode
	}
	city := province
	municipality := slices.Contains(rules.Municipalities, province)
	if codes := g.cityCodes[provCode]; len(codes) > 0 && !municipality {
		cityCode = codes[g.rnd.IntN(len(codes))]
		city = geo.Cities[provCode][cityCode]
	} else if len(codes) == 0 {
		municipality = true
	}

	fullCode := provCode + cityCode

	district := rules.DefaultDistrict
	if district == "" {
		district = defaultDistrict
	}
	if pool := geo.Districts[fullCode]; len(pool) > 0 {
		district, _ = choice(g.rnd, pool)
	}

	// External data dirs may carry division codes of the wrong width;
	// the ID and social-credit generators reject non-6-digit area
	// codes, so fall back to the rules default before they would.
	areaCode := fullCode + defaultAreaSuffix
	if len(areaCode) != 6 {
		areaCode = rules.DefaultAreaCode
		if areaCode == "" {
			areaCode = defaultProvinceCode + defaultCityCode + defaultAreaSuffix
		}
	}
	if code := g.tables.AreaCodes[fullCode][district]; len(code) == 6 {
		areaCode = code
	}

	street := defaultStreetName
	if s, ok := choice(g.rnd, geo.StreetNames); ok {
		street = s
	}
	number := g.genStreetNumber()

	var full string
	if municipality {
		full = province + district + street + number
	} else {
		full = province + city + district + street + number
	}

	return addressBundle{
		province: province,
		city:     city,
		district: district,
		full:     full,
		areaCode: areaCode,
		zipcode:  zipcodeFor(areaCode),
	}
}

// zipcodeFor approximates a postal code from the division code: the
// prefecture-level prefix with a zeroed tail.
func zipcodeFor(areaCode string) string {
	if len(areaCode) < 4 {
		return "100000"
	}
	return areaCode[:4] + "00"
}

func (g *Generator) genStreetNumber() string {
	sn := g.tables.Rules.StreetNumber

	number := g.drawRange(sn.NumberRange, 1, 999)
	buildingProb := probOr(sn.BuildingProbability, 0.5)
	unitProb := probOr(sn.UnitProbability, 0.3)

	switch p := g.rnd.Float64(); {
	case p < buildingProb:
		community := ""
		if name, ok := choice(g.rnd, g.tables.Geo.BuildingNames); ok {
			community = name
		}
		building := g.drawRange(sn.BuildingRange, 1, 30)
		unit := g.drawRange(sn.BuildingUnitRange, 1, 4)
		room := g.drawRange(sn.RoomRange, 101, 2500)
		return fmt.Sprintf("%d号%s%d栋%d单元%d室", number, community, building, unit, room)
	case p < buildingProb+unitProb:
		unit := g.drawRange(sn.UnitRange, 1, 20)
		room := g.drawRange(sn.RoomRange, 101, 2500)
		return fmt.Sprintf("%d号%d单元%d室", number, unit, room)
	default:
		return fmt.Sprintf("%d号", number)
	}
}

// drawRange draws uniformly from a configured [min, max] range, falling
// back to [lo, hi] when the table leaves the range unset.
func (g *Generator) drawRange(r [2]int, lo, hi int) int {
	lo, hi = rangeOr(r, lo, hi)
	return randRange(g.rnd, lo, hi)
}

func (g *Generator) genPhone() string {
	prefix := defaultCarrierPrefix
	if carriers := g.tables.Rules.Phone.Carriers; len(carriers) > 0 {
		weights := make([]float64, len(carriers))
		for i, c := range carriers {
			weights[i] = c.Weight
		}
		if i := weightedIndex(g.rnd, weights); i >= 0 {
			if p, ok := choice(g.rnd, carriers[i].Prefixes); ok {
				prefix = p
			}
		}
	}
	return prefix + randDigits(g.rnd, 8)
}

func (g *Generator) genEmail(phone string) string {
	rules := g.tables.Rules.Email

	domain := defaultEmailDomain
	if d, ok := choice(g.rnd, rules.Domains); ok {
		domain = d
	}

	if domain == "qq.com" {
		if phone != "" && chance(g.rnd, qqEmailPhoneProb) {
			return phone + "@" + domain
		}
		return strconv.FormatInt(randRange64(g.rnd, 100000000, 9999999999), 10) + "@" + domain
	}

	prefix := defaultUsernamePrefix
	if p, ok := choice(g.rnd, rules.PinyinPrefixes); ok {
		prefix = p
	}
	return fmt.Sprintf("%s%d@%s", prefix, randRange(g.rnd, 100, 9999), domain)
}

func (g *Generator) genUsername() string {
	prefix := defaultUsernamePrefix
	if p, ok := choice(g.rnd, g.tables.Rules.Username.Prefixes); ok {
		prefix = p
	}
	return fmt.Sprintf("%s%d", prefix, randRange(g.rnd, 100, 999999))
}

func (g *Generator) genPassword() string {
	return randChars(g.rnd, passwordCharset, randRange(g.rnd, 10, 16))
}

func (g *Generator) genCompany(city string) string {
	word := defaultCompanyWord
	if w, ok := choice(g.rnd, g.tables.Companies.NameWords); ok {
		word = w
	}
	typ := defaultCompanyType
	if t, ok := choice(g.rnd, g.tables.Companies.Types); ok {
		typ = t
	}

	region := ""
	if city != "" && chance(g.rnd, 0.5) {
		region = strings.TrimSuffix(city, "市")
	}
	return region + word + typ
}

func (g *Generator) genJobTitle() string {
	if t, ok := choice(g.rnd, g.tables.JobTitles); ok {
		return t
	}
	return defaultJobTitle
}

func (g *Generator) genEthnicity() string {
	groups := g.tables.Ethnicities
	if len(groups) == 0 {
		return defaultEthnicity
	}
	weights := make([]float64, len(groups))
	for i, e := range groups {
		weights[i] = e.PopulationRatio
	}
	if i := weightedIndex(g.rnd, weights); i >= 0 {
		return groups[i].Name
	}
	return defaultEthnicity
}

func (g *Generator) genEducation(age int) (level, major string) {
	level = g.tables.Rules.Education.DefaultLevel
	if level == "" {
		level = defaultEducationLevel
	}

	var survivors []refdata.EducationLevel
	for _, l := range g.tables.Education.Levels {
		if age >= l.MinAge && age <= l.MaxAge {
			survivors = append(survivors, l)
		}
	}
	if len(survivors) > 0 {
		weights := make([]float64, len(survivors))
		for i, l := range survivors {
			weights[i] = l.Probability
		}
		if i := weightedIndex(g.rnd, weights); i >= 0 {
			level = survivors[i].Level
		}
	}

	// A major only makes sense at or above the tertiary tiers.
	if slices.Contains(g.tables.Rules.Education.MajorLevels, level) {
		major, _ = choice(g.rnd, g.tables.Education.Majors)
	}
	return level, major
}

func (g *Generator) genPoliticalStatus(age int) string {
	var survivors []refdata.PoliticalStatus
	for _, s := range g.tables.Political {
		if age >= s.MinAge && age <= s.MaxAge {
			survivors = append(survivors, s)
		}
	}
	if len(survivors) == 0 {
		return defaultPoliticalStatus
	}
	weights := make([]float64, len(survivors))
	for i, s := range survivors {
		weights[i] = s.Probability
	}
	if i := weightedIndex(g.rnd, weights); i >= 0 {
		return survivors[i].Status
	}
	return defaultPoliticalStatus
}

func (g *Generator) genMaritalStatus(age int) string {
	statuses := g.tables.Marital
	if len(statuses) == 0 {
		return defaultMaritalStatus
	}
	weights := make([]float64, len(statuses))
	for i, s := range statuses {
		weights[i] = bracketProb(s.ProbabilityByAge, age)
	}
	if i := weightedIndex(g.rnd, weights); i >= 0 {
		return statuses[i].Status
	}
	return defaultMaritalStatus
}

// bracketProb resolves an age against "min-max" bracket keys. Brackets
// are disjoint, so at most one matches.
func bracketProb(byAge map[string]float64, age int) float64 {
	for bracket, p := range byAge {
		var lo, hi int
		if _, err := fmt.Sscanf(bracket, "%d-%d", &lo, &hi); err != nil {
			continue
		}
		if age >= lo && age <= hi {
			return p
		}
	}
	return 0
}

func (g *Generator) genBloodType() string {
	typ := defaultBloodType
	if types := g.tables.BloodTypes; len(types) > 0 {
		weights := make([]float64, len(types))
		for i, t := range types {
			weights[i] = t.Probability
		}
		if i := weightedIndex(g.rnd, weights); i >= 0 {
			typ = types[i].Type
		}
	}

	rules := g.tables.Rules.BloodType
	negProb := probOr(rules.RhNegativeProbability, defaultRhNegProb)
	if chance(g.rnd, negProb) {
		suffix := rules.RhNegativeSuffix
		if suffix == "" {
			suffix = defaultRhNegSuffix
		}
		return typ + suffix
	}
	return typ + rules.RhPositiveSuffix
}

func (g *Generator) genHeight(gender string) int {
	key := "male"
	if gender == genderFemale {
		key = "female"
	}
	profile, ok := g.tables.Rules.Height[key]
	if !ok {
		profile = defaultHeightProfiles[key]
	}

	h := int(math.Round(profile.Mean + profile.Std*g.rnd.NormFloat64()))
	if h < profile.Min {
		h = profile.Min
	}
	if h > profile.Max {
		h = profile.Max
	}
	return h
}

func (g *Generator) genWeight(gender string, height int) int {
	rules := g.tables.Rules.Weight
	minBMI := rules.MinBMI
	maxBMI := rules.MaxBMI
	if minBMI <= 0 || maxBMI <= minBMI {
		minBMI, maxBMI = defaultMinBMI, defaultMaxBMI
	}

	bmi := minBMI + g.rnd.Float64()*(maxBMI-minBMI)
	if gender == genderMale {
		lo, hi := rules.MaleAdjustMin, rules.MaleAdjustMax
		if hi <= lo {
			lo, hi = 0.5, 1.0
		}
		bmi += lo + g.rnd.Float64()*(hi-lo)
	}

	meters := float64(height) / 100
	return int(math.Round(bmi * meters * meters))
}

func (g *Generator) genBankCard() string {
	rules := g.tables.Rules.BankCard

	bin := defaultBankBIN
	if b, ok := choice(g.rnd, rules.BINs); ok {
		bin = b
	}
	lengths := rules.RemainingLengths
	if len(lengths) == 0 {
		lengths = defaultBankCardLengths
	}
	n, _ := choice(g.rnd, lengths)

	body := bin + randDigits(g.rnd, n)
	return body + string(luhnCheckDigit(body))
}

func (g *Generator) genSocialCreditCode(areaCode string) (string, error) {
	if len(areaCode) != 6 || !allDigits(areaCode) {
		return "", fmt.Errorf("area code must be exactly 6 digits, got %q", areaCode)
	}
	rules := g.tables.Rules.SocialCredit

	authority := "9"
	if a, ok := choice(g.rnd, rules.AuthorityCodes); ok {
		authority = a
	}
	orgType := "1"
	if t, ok := choice(g.rnd, rules.OrgTypes); ok {
		orgType = t
	}

	body := authority + orgType + areaCode + randDigits(g.rnd, 9)

	chars := rules.Chars
	if chars == "" {
		chars = defaultSocialCreditChars
	}
	weights := rules.Weights
	if len(weights) < 17 {
		weights = defaultSocialCreditWeights
	}
	check, err := socialCreditCheckChar(body, chars, weights)
	if err != nil {
		return "", err
	}
	return body + string(check), nil
}

func (g *Generator) genWeChatID() string {
	rules := g.tables.Rules.WeChat

	switch g.rnd.IntN(3) {
	case 0:
		charset := rules.WxidCharset
		if charset == "" {
			charset = defaultWxidCharset
		}
		length := rules.WxidLength
		if length <= 0 {
			length = defaultWxidLength
		}
		return "wxid_" + randChars(g.rnd, charset, length)
	case 1:
		prefix := "wx"
		if p, ok := choice(g.rnd, rules.Prefixes); ok {
			prefix = p
		}
		surname := "zhang"
		if s, ok := choice(g.rnd, rules.SurnamePrefixes); ok {
			surname = s
		}
		return prefix + "_" + surname + randDigits(g.rnd, 4)
	default:
		adjective := "happy"
		if a, ok := choice(g.rnd, rules.Adjectives); ok {
			adjective = a
		}
		concept := "life"
		if c, ok := choice(g.rnd, rules.Concepts); ok {
			concept = c
		}
		return adjective + concept + randDigits(g.rnd, 2)
	}
}

func (g *Generator) genQQNumber() string {
	lengths := g.tables.Rules.QQ.Lengths
	if len(lengths) == 0 {
		return strconv.FormatInt(randRange64(g.rnd, 100000000, 999999999), 10)
	}
	weights := make([]float64, len(lengths))
	for i, l := range lengths {
		weights[i] = l.Weight
	}
	i := weightedIndex(g.rnd, weights)
	if i < 0 {
		i = 0
	}
	return strconv.FormatInt(randRange64(g.rnd, lengths[i].Min, lengths[i].Max), 10)
}

func (g *Generator) genLicensePlate() string {
	rules := g.tables.Rules.LicensePlate

	province := defaultPlateProvince
	if p, ok := choice(g.rnd, rules.Provinces); ok {
		province = p
	}
	letter := string(g.plateLetters[g.rnd.IntN(len(g.plateLetters))])

	energyProb := probOr(rules.NewEnergyProbability, defaultPlateEnergyProb)
	if chance(g.rnd, energyProb) {
		typ := "D"
		if t, ok := choice(g.rnd, rules.NewEnergyTypes); ok {
			typ = t
		}
		return province + letter + typ + randDigits(g.rnd, 5)
	}
	return province + letter + randChars(g.rnd, g.plateLetters+"0123456789", 5)
}

func (g *Generator) genIPAddress() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		randRange(g.rnd, 1, 223), randRange(g.rnd, 0, 255),
		randRange(g.rnd, 0, 255), randRange(g.rnd, 1, 254))
}

func (g *Generator) genMACAddress() string {
	var b [6]byte
	for i := range b {
		b[i] = byte(g.rnd.IntN(256))
	}
	b[0] &^= 1 // unicast
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}

// genEmergency invents a contact person. Paternal-line relations share
// the record's surname when one was generated.
func (g *Generator) genEmergency(surname string) (contact, phone string) {
	relation := defaultRelation
	if r, ok := choice(g.rnd, g.tables.Rules.EmergencyRelations); ok {
		relation = r
	}

	gender := g.genGender()
	switch relation {
	case "父亲":
		gender = genderMale
	case "母亲":
		gender = genderFemale
	}

	last, first := g.genName(gender)
	if surname != "" {
		switch relation {
		case "父亲", "兄弟姐妹", "子女":
			last = surname
		}
	}

	return last + first + "(" + relation + ")", g.genPhone()
}

func (g *Generator) genHobbies() string {
	pool := g.hobbyPool
	if len(pool) == 0 {
		return defaultHobby
	}
	n := randRange(g.rnd, 2, 4)
	if n > len(pool) {
		n = len(pool)
	}

	picked := g.rnd.Perm(len(pool))[:n]
	sort.Ints(picked)
	items := make([]string, n)
	for i, idx := range picked {
		items[i] = pool[idx]
	}
	return strings.Join(items, "、")
}

func (g *Generator) genReligion() string {
	religions := g.tables.Rules.Religions
	if len(religions) == 0 {
		return defaultReligion
	}
	weights := make([]float64, len(religions))
	for i, r := range religions {
		weights[i] = r.Probability
	}
	if i := weightedIndex(g.rnd, weights); i >= 0 {
		return religions[i].Name
	}
	return defaultReligion
}

func buildSurnameWeights(names refdata.NameTable) []float64 {
	weights := make([]float64, len(names.Surnames))
	tail := surnameTailBase
	for i := range names.Surnames {
		if i < len(names.SurnameWeights) {
			weights[i] = names.SurnameWeights[i]
			continue
		}
		weights[i] = tail
		tail *= surnameTailDecay
	}
	return weights
}

func buildPlateLetters(excluded []string) string {
	var b strings.Builder
	for c := byte('A'); c <= 'Z'; c++ {
		if slices.Contains(excluded, string(c)) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func rangeOr(r [2]int, lo, hi int) (int, int) {
	if r[0] == 0 && r[1] == 0 {
		return lo, hi
	}
	return r[0], r[1]
}

func probOr(p, fallback float64) float64 {
	if p <= 0 {
		return fallback
	}
	return p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
