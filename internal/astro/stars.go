package astro

import (
	"sort"
	"time"
)

// BackdropStar is a fixed star drawn behind the solar system bodies.
type BackdropStar struct {
	Name    string
	RAHours float64 // J2000
	DecDeg  float64 // J2000
	Mag     float64
}

// StarPosition is a backdrop star placed in an observer's sky.
type StarPosition struct {
	Name     string
	Mag      float64
	Azimuth  float64
	Altitude float64
}

// BackdropStars returns the catalog stars no fainter than maxMag that are
// above the horizon for obs at t, brightest first. Precession since J2000
// is ignored; at terminal resolution it is invisible.
func BackdropStars(obs Observer, t time.Time, maxMag float64) []StarPosition {
	var out []StarPosition
	for _, s := range brightStars {
		if s.Mag > maxMag {
			continue
		}
		hz := EquatorialToHorizontal(SkyCoord{RAdeg: s.RAHours * 15, DecDeg: s.DecDeg}, obs, t)
		if hz.ElDeg <= 0 {
			continue
		}
		out = append(out, StarPosition{Name: s.Name, Mag: s.Mag, Azimuth: hz.AzDeg, Altitude: hz.ElDeg})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mag < out[j].Mag })
	return out
}

// brightStars lists the navigational stars to magnitude 2.5.
var brightStars = []BackdropStar{
	{"Sirius", 6.7525, -16.716, -1.46},
	{"Canopus", 6.3992, -52.696, -0.74},
	{"Arcturus", 14.2610, 19.182, -0.05},
	{"Vega", 18.6157, 38.784, 0.03},
	{"Capella", 5.2781, 45.998, 0.08},
	{"Rigel", 5.2423, -8.202, 0.13},
	{"Procyon", 7.6551, 5.225, 0.34},
	{"Achernar", 1.6286, -57.237, 0.46},
	{"Betelgeuse", 5.9195, 7.407, 0.50},
	{"Hadar", 14.0637, -60.373, 0.61},
	{"Acrux", 12.4433, -63.099, 0.76},
	{"Altair", 19.8464, 8.868, 0.76},
	{"Aldebaran", 4.5987, 16.509, 0.85},
	{"Antares", 16.4901, -26.432, 0.96},
	{"Spica", 13.4199, -11.161, 0.97},
	{"Pollux", 7.7553, 28.026, 1.14},
	{"Fomalhaut", 22.9609, -29.622, 1.16},
	{"Deneb", 20.6905, 45.280, 1.25},
	{"Mimosa", 12.7953, -59.689, 1.25},
	{"Regulus", 10.1395, 11.967, 1.35},
	{"Adhara", 6.9771, -28.972, 1.50},
	{"Castor", 7.5767, 31.889, 1.58},
	{"Gacrux", 12.5194, -57.113, 1.63},
	{"Shaula", 17.5601, -37.104, 1.63},
	{"Bellatrix", 5.4189, 6.350, 1.64},
	{"Elnath", 5.4382, 28.608, 1.65},
	{"Miaplacidus", 9.2200, -69.717, 1.68},
	{"Alnilam", 5.6035, -1.202, 1.69},
	{"Alnair", 22.1372, -46.961, 1.74},
	{"Alioth", 12.9005, 55.960, 1.77},
	{"Alnitak", 5.6793, -1.943, 1.77},
	{"Dubhe", 11.0621, 61.751, 1.79},
	{"Mirfak", 3.4054, 49.861, 1.79},
	{"Wezen", 7.1399, -26.393, 1.84},
	{"Kaus Australis", 18.4029, -34.384, 1.85},
	{"Alkaid", 13.7923, 49.313, 1.86},
	{"Avior", 8.3753, -59.509, 1.86},
	{"Sargas", 17.6220, -42.998, 1.87},
	{"Menkalinan", 5.9921, 44.948, 1.90},
	{"Atria", 16.8111, -69.028, 1.92},
	{"Alhena", 6.6285, 16.399, 1.93},
	{"Peacock", 20.4275, -56.735, 1.94},
	{"Alsephina", 8.7451, -54.709, 1.96},
	{"Mirzam", 6.3783, -17.956, 1.98},
	{"Alphard", 9.4598, -8.659, 2.00},
	{"Hamal", 2.1195, 23.463, 2.00},
	{"Diphda", 0.7265, -17.987, 2.02},
	{"Nunki", 18.9211, -26.297, 2.02},
	{"Polaris", 2.5303, 89.264, 2.02},
	{"Mizar", 13.3987, 54.925, 2.04},
	{"Mirach", 1.1622, 35.621, 2.05},
	{"Alpheratz", 0.1398, 29.091, 2.06},
	{"Menkent", 14.1114, -36.370, 2.06},
	{"Algieba", 9.7642, 19.842, 2.08},
	{"Kochab", 14.8451, 74.156, 2.08},
	{"Rasalhague", 17.5823, 12.560, 2.08},
	{"Saiph", 5.7959, -9.670, 2.09},
	{"Algol", 3.1361, 40.957, 2.12},
	{"Denebola", 11.8177, 14.572, 2.13},
	{"Muhlifain", 12.6919, -48.960, 2.17},
	{"Suhail", 9.1333, -43.433, 2.21},
	{"Alphecca", 15.5781, 26.715, 2.23},
	{"Eltanin", 17.9435, 51.489, 2.23},
	{"Mintaka", 5.5335, -0.299, 2.23},
	{"Sadr", 20.3705, 40.257, 2.23},
	{"Schedar", 0.6751, 56.537, 2.23},
	{"Aspidiske", 9.2849, -59.275, 2.25},
	{"Naos", 8.0597, -40.003, 2.25},
	{"Caph", 0.1530, 59.150, 2.27},
	{"Larawag", 16.9770, -34.293, 2.29},
	{"Dschubba", 16.0055, -22.622, 2.32},
	{"Izar", 14.7498, 27.074, 2.37},
	{"Merak", 11.0307, 56.382, 2.37},
	{"Ankaa", 0.4381, -42.306, 2.38},
	{"Enif", 21.7364, 9.875, 2.39},
	{"Girtab", 17.7081, -39.030, 2.41},
	{"Scheat", 23.0629, 28.083, 2.42},
	{"Sabik", 17.1730, -15.725, 2.43},
	{"Phecda", 11.8972, 53.695, 2.44},
	{"Aludra", 7.4016, -29.303, 2.45},
	{"Markeb", 9.3685, -55.011, 2.47},
	{"Navi", 0.9451, 60.717, 2.47},
	{"Aljanah", 20.7702, 33.970, 2.48},
	{"Markab", 23.0793, 15.205, 2.49},
}
