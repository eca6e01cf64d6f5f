// Package geodata serves the static district/upazila reference tables used
// by registration and request forms. The data is a fixed lookup set, not a
// managed entity; it ships with the binary.
package geodata

// District is an administrative district with its upazilas.
type District struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Upazilas []string `json:"upazilas"`
}

// districts is the reference table, ordered by name. Trimmed to the
// districts the platform currently operates in; extending it is a data
// change, not a code change.
var districts = []District{
	{ID: "1", Name: "Barishal", Upazilas: []string{"Agailjhara", "Babuganj", "Bakerganj", "Banaripara", "Gaurnadi", "Hizla", "Mehendiganj", "Muladi", "Wazirpur"}},
	{ID: "2", Name: "Chattogram", Upazilas: []string{"Anwara", "Banshkhali", "Boalkhali", "Chandanaish", "Fatikchhari", "Hathazari", "Lohagara", "Mirsharai", "Patiya", "Rangunia", "Raozan", "Sandwip", "Satkania", "Sitakunda"}},
	{ID: "3", Name: "Cumilla", Upazilas: []string{"Barura", "Brahmanpara", "Burichang", "Chandina", "Chauddagram", "Daudkandi", "Debidwar", "Homna", "Laksam", "Muradnagar", "Nangalkot", "Titas"}},
	{ID: "4", Name: "Dhaka", Upazilas: []string{"Dhamrai", "Dohar", "Keraniganj", "Nawabganj", "Savar"}},
	{ID: "5", Name: "Gazipur", Upazilas: []string{"Gazipur Sadar", "Kaliakair", "Kaliganj", "Kapasia", "Sreepur"}},
	{ID: "6", Name: "Khulna", Upazilas: []string{"Batiaghata", "Dacope", "Dighalia", "Dumuria", "Koyra", "Paikgachha", "Phultala", "Rupsha", "Terokhada"}},
	{ID: "7", Name: "Mymensingh", Upazilas: []string{"Bhaluka", "Dhobaura", "Fulbaria", "Gafargaon", "Gauripur", "Haluaghat", "Ishwarganj", "Muktagachha", "Nandail", "Phulpur", "Trishal"}},
	{ID: "8", Name: "Rajshahi", Upazilas: []string{"Bagha", "Bagmara", "Charghat", "Durgapur", "Godagari", "Mohanpur", "Paba", "Puthia", "Tanore"}},
	{ID: "9", Name: "Rangpur", Upazilas: []string{"Badarganj", "Gangachara", "Kaunia", "Mithapukur", "Pirgachha", "Pirganj", "Rangpur Sadar", "Taraganj"}},
	{ID: "10", Name: "Sylhet", Upazilas: []string{"Balaganj", "Beanibazar", "Bishwanath", "Companiganj", "Fenchuganj", "Golapganj", "Gowainghat", "Jaintiapur", "Kanaighat", "Osmani Nagar", "Zakiganj"}},
}

var byID = func() map[string]*District {
	m := make(map[string]*District, len(districts))
	for i := range districts {
		m[districts[i].ID] = &districts[i]
	}
	return m
}()

var byName = func() map[string]*District {
	m := make(map[string]*District, len(districts))
	for i := range districts {
		m[districts[i].Name] = &districts[i]
	}
	return m
}()

// Districts returns the full reference table.
func Districts() []District {
	return districts
}

// ByID looks up a district by id.
func ByID(id string) (*District, bool) {
	d, ok := byID[id]
	return d, ok
}

// ValidDistrict reports whether name is a known district.
func ValidDistrict(name string) bool {
	_, ok := byName[name]
	return ok
}

// ValidUpazila reports whether upazila belongs to the named district.
func ValidUpazila(district, upazila string) bool {
	d, ok := byName[district]
	if !ok {
		return false
	}
	for _, u := range d.Upazilas {
		if u == upazila {
			return true
		}
	}
	return false
}
