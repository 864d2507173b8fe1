package model

// NumTerpenes is the dimensionality of every terpene vector in the system.
const NumTerpenes = 11

// TerpeneNames lists the tracked compounds in canonical vector order.
// Every TerpeneVector index refers to the compound at the same position here.
var TerpeneNames = [NumTerpenes]string{
	"myrcene",
	"limonene",
	"caryophyllene",
	"pinene",
	"linalool",
	"humulene",
	"terpinolene",
	"ocimene",
	"nerolidol",
	"bisabolol",
	"eucalyptol",
}

// TerpeneVector is a fixed-order concentration profile, each component in [0,1].
// Compounds a source does not report stay at 0 so vector arithmetic is total.
type TerpeneVector [NumTerpenes]float64

// terpeneIndex maps canonical compound names to their vector position.
var terpeneIndex = func() map[string]int {
	idx := make(map[string]int, NumTerpenes)
	for i, name := range TerpeneNames {
		idx[name] = i
	}
	return idx
}()

// VectorFromMap builds a TerpeneVector from a name->concentration map.
// Unknown compound names are ignored; missing compounds stay 0.
func VectorFromMap(m map[string]float64) TerpeneVector {
	var v TerpeneVector
	for name, value := range m {
		if i, ok := terpeneIndex[name]; ok {
			v[i] = value
		}
	}
	return v
}

// Map returns the vector as a name->concentration map, omitting zero entries.
func (v TerpeneVector) Map() map[string]float64 {
	m := make(map[string]float64)
	for i, value := range v {
		if value != 0 {
			m[TerpeneNames[i]] = value
		}
	}
	return m
}

// Slice returns the vector as a float64 slice in canonical order.
func (v TerpeneVector) Slice() []float64 {
	out := make([]float64, NumTerpenes)
	copy(out, v[:])
	return out
}

// IsZero reports whether every component is 0.
func (v TerpeneVector) IsZero() bool {
	for _, value := range v {
		if value != 0 {
			return false
		}
	}
	return true
}
