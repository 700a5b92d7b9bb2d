package identity

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/zarlcorp/zident/internal/refdata"
)

func newTestGenerator(t *testing.T, seed uint64) *Generator {
	t.Helper()
	tables, err := refdata.Default()
	if err != nil {
		t.Fatalf("loading reference tables: %v", err)
	}
	return NewGenerator(tables, &seed)
}

func TestGenerateAllFields(t *testing.T) {
	g := newTestGenerator(t, 1)
	id, err := g.Generate(Config{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		check func() bool
	}{
		{"Name non-empty", func() bool { return id.Name != "" }},
		{"Name is surname+given", func() bool { return id.Name == id.LastName+id.FirstName }},
		{"Gender is 男 or 女", func() bool { return id.Gender == "男" || id.Gender == "女" }},
		{"Birthdate parses", func() bool { _, err := time.Parse("2006-01-02", id.Birthdate); return err == nil }},
		{"Age in range", func() bool { return id.Age >= 18 && id.Age <= 70 }},
		{"SSN length", func() bool { return len(id.SSN) == 18 }},
		{"Phone 11 digits", func() bool { return regexp.MustCompile(`^1\d{10}$`).MatchString(id.Phone) }},
		{"Email has @ sign", func() bool { return strings.Contains(id.Email, "@") }},
		{"Address mentions street number", func() bool { return strings.Contains(id.Address, "号") }},
		{"City non-empty", func() bool { return id.City != "" }},
		{"State non-empty", func() bool { return id.State != "" }},
		{"Zipcode 6 digits", func() bool { return regexp.MustCompile(`^\d{6}$`).MatchString(id.Zipcode) }},
		{"Country fixed", func() bool { return id.Country == "中国" }},
		{"Company non-empty", func() bool { return id.Company != "" }},
		{"JobTitle non-empty", func() bool { return id.JobTitle != "" }},
		{"Username non-empty", func() bool { return id.Username != "" }},
		{"Password length", func() bool { return len(id.Password) >= 10 }},
		{"Education non-empty", func() bool { return id.Education != "" }},
		{"BloodType non-empty", func() bool { return id.BloodType != "" }},
		{"Height plausible", func() bool { return id.Height >= 145 && id.Height <= 195 }},
		{"Weight plausible", func() bool { return id.Weight >= 35 && id.Weight <= 110 }},
		{"BankCard digits", func() bool { return regexp.MustCompile(`^\d{17,19}$`).MatchString(id.BankCard) }},
		{"SocialCreditCode length", func() bool { return len(id.SocialCreditCode) == 18 }},
		{"WeChatID non-empty", func() bool { return id.WeChatID != "" }},
		{"QQNumber digits", func() bool { return regexp.MustCompile(`^\d{8,10}$`).MatchString(id.QQNumber) }},
		{"IPAddress dotted quad", func() bool { return strings.Count(id.IPAddress, ".") == 3 }},
		{"MACAddress format", func() bool { return regexp.MustCompile(`^([0-9A-F]{2}:){5}[0-9A-F]{2}$`).MatchString(id.MACAddress) }},
		{"EmergencyContact has relation", func() bool { return strings.Contains(id.EmergencyContact, "(") }},
		{"EmergencyPhone 11 digits", func() bool { return regexp.MustCompile(`^1\d{10}$`).MatchString(id.EmergencyPhone) }},
		{"Hobbies non-empty", func() bool { return id.Hobbies != "" }},
		{"Religion non-empty", func() bool { return id.Religion != "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check() {
				t.Errorf("check failed for identity: %+v", id)
			}
		})
	}
}

func TestIDNumberParity(t *testing.T) {
	g := newTestGenerator(t, 2)
	cfg := Config{IncludeFields: []string{"ssn", "gender"}}
	for range 300 {
		id, err := g.Generate(cfg)
		if err != nil {
			t.Fatal(err)
		}
		seq, err := strconv.Atoi(id.SSN[14:17])
		if err != nil {
			t.Fatalf("sequence segment of %q: %v", id.SSN, err)
		}
		switch id.Gender {
		case "男":
			if seq%2 != 1 {
				t.Errorf("male ssn %q has even sequence %d", id.SSN, seq)
			}
		case "女":
			if seq%2 != 0 {
				t.Errorf("female ssn %q has odd sequence %d", id.SSN, seq)
			}
		default:
			t.Fatalf("unexpected gender %q", id.Gender)
		}
	}
}

func TestIDNumberEmbedsBirthdateAndAreaCode(t *testing.T) {
	g := newTestGenerator(t, 3)
	cfg := Config{IncludeFields: []string{"ssn", "birthdate"}}
	for range 100 {
		id, err := g.Generate(cfg)
		if err != nil {
			t.Fatal(err)
		}
		birth, err := time.Parse("2006-01-02", id.Birthdate)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := id.SSN[6:14], birth.Format("20060102"); got != want {
			t.Errorf("ssn %q embeds birthdate %s, record has %s", id.SSN, got, want)
		}
		if !allDigits(id.SSN[:6]) {
			t.Errorf("ssn %q area code not numeric", id.SSN)
		}
	}
}

func TestPhoneFormat(t *testing.T) {
	tables, err := refdata.Default()
	if err != nil {
		t.Fatal(err)
	}
	prefixes := make(map[string]bool)
	for _, c := range tables.Rules.Phone.Carriers {
		for _, p := range c.Prefixes {
			prefixes[p] = true
		}
	}

	seed := uint64(4)
	g := NewGenerator(tables, &seed)
	for range 500 {
		phone := g.genPhone()
		if len(phone) != 11 || phone[0] != '1' || !allDigits(phone) {
			t.Fatalf("malformed phone %q", phone)
		}
		if !prefixes[phone[:3]] {
			t.Errorf("phone %q has prefix outside the carrier tables", phone)
		}
	}
}

func TestBankCardLuhn(t *testing.T) {
	g := newTestGenerator(t, 5)
	for range 300 {
		card := g.genBankCard()
		if !allDigits(card) {
			t.Fatalf("non-numeric bank card %q", card)
		}
		if !luhnValid(card) {
			t.Errorf("bank card %q fails the Luhn check", card)
		}
	}
}

func TestSocialCreditCodeFormat(t *testing.T) {
	g := newTestGenerator(t, 6)
	for range 300 {
		code, err := g.genSocialCreditCode("110101")
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 18 {
			t.Fatalf("social credit code length %d: %q", len(code), code)
		}
		for i := 0; i < len(code); i++ {
			if !strings.ContainsRune(defaultSocialCreditChars, rune(code[i])) {
				t.Errorf("code %q: character %c outside the 31-symbol alphabet", code, code[i])
			}
		}
		check, err := socialCreditCheckChar(code[:17], defaultSocialCreditChars, defaultSocialCreditWeights)
		if err != nil {
			t.Fatal(err)
		}
		if code[17] != check {
			t.Errorf("code %q: check char %c, recomputed %c", code, code[17], check)
		}
	}

	if _, err := g.genSocialCreditCode("1101"); err == nil {
		t.Error("short area code should fail")
	}
}

func TestZodiacBoundaries(t *testing.T) {
	g := newTestGenerator(t, 8)
	tests := []struct {
		date string
		want string
	}{
		{"1990-12-21", "射手座"},
		{"1990-12-22", "摩羯座"},
		{"1991-01-19", "摩羯座"},
		{"1991-01-20", "水瓶座"},
		{"1990-03-20", "双鱼座"},
		{"1990-03-21", "白羊座"},
		{"1990-08-23", "处女座"},
	}
	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := g.zodiacSign(d); got != tt.want {
			t.Errorf("zodiacSign(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestChineseZodiac(t *testing.T) {
	g := newTestGenerator(t, 9)
	tests := []struct {
		year int
		want string
	}{
		{1900, "鼠"},
		{1987, "兔"},
		{2000, "龙"},
		{2020, "鼠"},
		{2023, "兔"},
	}
	for _, tt := range tests {
		if got := g.chineseZodiac(tt.year); got != tt.want {
			t.Errorf("chineseZodiac(%d) = %s, want %s", tt.year, got, tt.want)
		}
	}
}

func TestAgeGatedFields(t *testing.T) {
	g := newTestGenerator(t, 10)

	// at 18 the tertiary tiers are age-gated out
	for range 200 {
		level, major := g.genEducation(18)
		switch level {
		case "大专", "本科", "硕士研究生", "博士研究生", "小学":
			t.Errorf("education %q impossible at age 18", level)
		}
		if major != "" {
			t.Errorf("major %q assigned below the tertiary tiers", major)
		}
	}

	// a 20-year-old can never be a 民主党派 member (min age 28)
	for range 200 {
		if status := g.genPoliticalStatus(20); status == "民主党派" || status == "无党派人士" || status == "中共党员" {
			t.Errorf("political status %q impossible at age 20", status)
		}
	}

	// marital statuses stay within the configured set
	valid := map[string]bool{"未婚": true, "已婚": true, "离异": true, "丧偶": true}
	for range 200 {
		if s := g.genMaritalStatus(30); !valid[s] {
			t.Errorf("unexpected marital status %q", s)
		}
	}
}

func TestAddressBundleConsistency(t *testing.T) {
	g := newTestGenerator(t, 11)
	for range 200 {
		b := g.genAddress()
		if len(b.areaCode) != 6 || !allDigits(b.areaCode) {
			t.Fatalf("area code %q not 6 digits", b.areaCode)
		}
		if !strings.HasPrefix(b.full, b.province) {
			t.Errorf("address %q does not start with province %q", b.full, b.province)
		}
		if !strings.Contains(b.full, b.district) {
			t.Errorf("address %q missing district %q", b.full, b.district)
		}
		if b.zipcode != b.areaCode[:4]+"00" {
			t.Errorf("zipcode %q not derived from area code %q", b.zipcode, b.areaCode)
		}
	}
}

func TestSeededRunsAreIdentical(t *testing.T) {
	cfg := Config{Count: 20}
	a := newTestGenerator(t, 42)
	b := newTestGenerator(t, 42)

	// pin the clock so birthdate windows agree
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }
	b.now = func() time.Time { return now }

	first, err := a.GenerateBatch(cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.GenerateBatch(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed and config produced different batches")
	}
}

func TestSeedsDiverge(t *testing.T) {
	a := newTestGenerator(t, 1)
	b := newTestGenerator(t, 2)
	ia, err := a.Generate(Config{})
	if err != nil {
		t.Fatal(err)
	}
	ib, err := b.Generate(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(ia, ib) {
		t.Error("different seeds produced the same record")
	}
}

func TestEndToEndSeededTriple(t *testing.T) {
	cfg := Config{Count: 1, IncludeFields: []string{"name", "ssn", "gender"}}
	seed := uint64(42)
	cfg.Seed = &seed

	run := func() Identity {
		t.Helper()
		g := newTestGenerator(t, *cfg.Seed)
		g.now = func() time.Time { return time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC) }
		batch, err := g.GenerateBatch(cfg)
		if err != nil {
			t.Fatal(err)
		}
		return batch[0]
	}

	first, second := run(), run()
	if first.Name != second.Name || first.SSN != second.SSN || first.Gender != second.Gender {
		t.Errorf("seeded runs disagree: %+v vs %+v", first, second)
	}

	seq, err := strconv.Atoi(first.SSN[14:17])
	if err != nil {
		t.Fatal(err)
	}
	if first.Gender == "男" && seq%2 != 1 {
		t.Errorf("male record with even sequence %d", seq)
	}
	if first.Gender == "女" && seq%2 != 0 {
		t.Errorf("female record with odd sequence %d", seq)
	}
}

func TestProjectionOmitsUnrequestedFields(t *testing.T) {
	g := newTestGenerator(t, 12)
	id, err := g.Generate(Config{IncludeFields: []string{"name"}})
	if err != nil {
		t.Fatal(err)
	}

	m := id.ToMap(nil)
	if len(m) != 1 {
		t.Fatalf("expected only the name field, got %v", m)
	}
	if m["name"] == "" {
		t.Error("name missing from projection")
	}
}

func TestBatchPhonesUnique(t *testing.T) {
	g := newTestGenerator(t, 13)
	batch, err := g.GenerateBatch(Config{Count: 500, IncludeFields: []string{"phone"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 500 {
		t.Fatalf("got %d records, want 500", len(batch))
	}
	seen := make(map[string]bool, len(batch))
	for _, id := range batch {
		if seen[id.Phone] {
			t.Errorf("duplicate phone %q in batch", id.Phone)
		}
		seen[id.Phone] = true
	}
}

func TestSurnameDistribution(t *testing.T) {
	g := newTestGenerator(t, 14)

	// 王李张刘陈 cover ~30% of the population; over 2000 draws the top
	// five should clearly dominate any single tail surname
	counts := make(map[string]int)
	for range 2000 {
		last, _ := g.genName("男")
		counts[last]++
	}
	top := counts["王"] + counts["李"] + counts["张"] + counts["刘"] + counts["陈"]
	if top < 400 {
		t.Errorf("top five surnames drawn %d times of 2000, expected ≈600", top)
	}
}

func TestQQEmailMayReusePhone(t *testing.T) {
	g := newTestGenerator(t, 15)
	const phone = "13812345678"
	reused := false
	for range 500 {
		email := g.genEmail(phone)
		if email == phone+"@qq.com" {
			reused = true
			break
		}
	}
	if !reused {
		t.Error("qq.com emails never reused the phone number in 500 draws")
	}
}

func TestHeightWithinProfile(t *testing.T) {
	g := newTestGenerator(t, 16)
	for range 500 {
		if h := g.genHeight("男"); h < 155 || h > 195 {
			t.Fatalf("male height %d outside clamp range", h)
		}
		if h := g.genHeight("女"); h < 145 || h > 180 {
			t.Fatalf("female height %d outside clamp range", h)
		}
	}
}

func TestStreetNumberRespectsConfiguredRanges(t *testing.T) {
	g := newTestGenerator(t, 17)
	sn := &g.tables.Rules.StreetNumber
	sn.NumberRange = [2]int{7, 7}
	sn.BuildingProbability = 1.0
	sn.BuildingRange = [2]int{2, 2}
	sn.BuildingUnitRange = [2]int{3, 3}
	sn.RoomRange = [2]int{101, 101}

	for range 100 {
		got := g.genStreetNumber()
		if !strings.HasPrefix(got, "7号") {
			t.Fatalf("street number %q ignores number_range", got)
		}
		if !strings.HasSuffix(got, "2栋3单元101室") {
			t.Fatalf("street number %q ignores building ranges", got)
		}
	}
}

func TestDrawRange(t *testing.T) {
	g := newTestGenerator(t, 18)

	if got := g.drawRange([2]int{4, 4}, 1, 9); got != 4 {
		t.Errorf("configured range [4,4] drew %d", got)
	}

	// a zeroed range falls back to the given bounds
	for range 200 {
		if got := g.drawRange([2]int{0, 0}, 5, 6); got < 5 || got > 6 {
			t.Fatalf("fallback draw %d outside [5,6]", got)
		}
	}
}

func TestMunicipalityListedInRules(t *testing.T) {
	tables, err := refdata.Default()
	if err != nil {
		t.Fatal(err)
	}
	// a listed municipality keeps its own name as the city even when a
	// city table exists for its code
	tables.Geo.Provinces = map[string]string{"11": "北京市"}
	tables.Geo.Cities = map[string]map[string]string{"11": {"01": "幽州市"}}
	tables.Rules.Address.Municipalities = []string{"北京市"}

	seed := uint64(19)
	g := NewGenerator(tables, &seed)
	for range 50 {
		b := g.genAddress()
		if b.city != "北京市" {
			t.Fatalf("municipality city = %q, want 北京市", b.city)
		}
		if strings.Contains(b.full, "幽州市") {
			t.Fatalf("address %q draws a city inside a municipality", b.full)
		}
	}
}

func TestAreaCodeFallsBackToRulesDefault(t *testing.T) {
	tables, err := refdata.Default()
	if err != nil {
		t.Fatal(err)
	}
	// a malformed division code cannot seed the 6-digit area code, so
	// the rules default takes over
	tables.Geo.Provinces = map[string]string{"1": "短码省"}
	tables.Geo.Cities = nil
	tables.AreaCodes = nil
	tables.Rules.Address.DefaultAreaCode = "110105"

	seed := uint64(20)
	g := NewGenerator(tables, &seed)
	b := g.genAddress()
	if b.areaCode != "110105" {
		t.Fatalf("area code = %q, want the rules default 110105", b.areaCode)
	}
	if b.zipcode != "110100" {
		t.Fatalf("zipcode = %q, want 110100", b.zipcode)
	}
}
