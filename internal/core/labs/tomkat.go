package labs

import "github.com/JonMunkholm/labnorm/internal/core"

func init() {
	register(tomkatSoil)
}

// tomkatSoil covers the TomKat Ranch exports, which use the Ward column
// layout with A&L West analytes.
func tomkatSoil() *core.LabConfig {
	return &core.LabConfig{
		Name:        "A & L Labs West",
		Type:        core.LabSoil,
		ExamplesKey: "tomkat",
		Mappings: core.Mappings{
			"Kind Of Sample": nil,
			"Lab No":         {core.FieldLabID},
			"Cust No":        {core.FieldAccountNumber},
			"Name":           {core.FieldName},
			"Company":        {core.FieldCompany},
			"Address 1":      {core.FieldAddress1},
			"Address 2":      {core.FieldAddress2},
			"City":           {core.FieldCity},
			"State":          {core.FieldState},
			"Zip":            {core.FieldZip},
			"Grower":         {core.FieldGrower},
			"Field ID":       {core.FieldField},
			"Sample ID":      {core.FieldSampleNumber},
			"Date Recd":      {core.FieldEventDate},
			"Date Rept":      {core.FieldProcessedDate},
			"B Depth":        {"StartingDepth"},
			"E Depth":        {"EndingDepth"},
			"Past Crop":      nil,
		},
		Analytes: map[string]core.NutrientResult{
			"1:1 Soil pH":                 {Element: "pH", ModusTestID: "S-PH-1:1.02.07"},
			"WDRF Buffer pH":              {Element: "B-pH", ModusTestID: "S-BPH-WB.02"},
			"1:1 S Salts":                 {Element: "SS", ValueUnit: "mmho/cm", ModusTestID: "S-SS.19"},
			"Excess Lime":                 {Element: "Excess-Lime"},
			"Texture No":                  {Element: "Texture"},
			"Organic Matter LOI %":        {Element: "OM", ValueUnit: "%", ModusTestID: "S-SOM-LOI.15"},
			"Nitrate-N ppm N":             {Element: "NO3-N", ValueUnit: "ppm"},
			"lbs N/A":                     {Element: "N", ValueUnit: "lb/ac"},
			"Bray P-1 ppm P":              {Element: "P (Bray P1 1:10)", ValueUnit: "ppm", ModusTestID: "S-P-B1-1:10.01.03"},
			"Olsen P ppm P":               {Element: "P (Olsen)", ValueUnit: "ppm", ModusTestID: "S-P-BIC.04"},
			"Potassium ppm K":             {Element: "K", ValueUnit: "ppm"},
			"Sulfate-S ppm S":             {Element: "SO4-S", ValueUnit: "ppm"},
			"Zinc ppm Zn":                 {Element: "Zn", ValueUnit: "ppm"},
			"Iron ppm Fe":                 {Element: "Fe", ValueUnit: "ppm"},
			"Manganese ppm Mn":            {Element: "Mn", ValueUnit: "ppm"},
			"Copper ppm Cu":               {Element: "Cu", ValueUnit: "ppm"},
			"Calcium ppm Ca":              {Element: "Ca", ValueUnit: "ppm"},
			"Magnesium ppm Mg":            {Element: "Mg", ValueUnit: "ppm"},
			"Sodium ppm Na":               {Element: "Na", ValueUnit: "ppm"},
			"Boron ppm B":                 {Element: "B", ValueUnit: "ppm"},
			"CEC/Sum of Cations me/100g":  {Element: "CEC", ValueUnit: "meq/100g"},
			"2N KCl NO3-N ppm N":          {Element: "NO3-N", ValueUnit: "ppm", ModusTestID: "S-NO3-1:5.01.01"},
			"KCl NH4-N ppm":               {Element: "NH4-N", ValueUnit: "ppm"},
			"Aluminum ppm Al":             {Element: "Al", ValueUnit: "ppm"},
			"Chloride ppm Cl":             {Element: "Cl", ValueUnit: "ppm"},
			"Bray P-2 ppm P":              {Element: "P (Bray P2 1:10)", ValueUnit: "ppm", ModusTestID: "S-P-B2-1:10.01.03"},
			"Mehlich P-II ppm P":          {Element: "P", ValueUnit: "ppm", ModusTestID: "S-P-M2.04"},
			"Mehlich P-III ppm P":         {Element: "P", ValueUnit: "ppm", ModusTestID: "S-P-M3.04"},
			"Salt pH":                     {Element: "pH"},
			"Salt Buffer pH":              {Element: "pH"},
			"WB OM %":                     {Element: "OM", ValueUnit: "%"},
			"Total N ppm":                 {Element: "TN", ValueUnit: "ppm"},
			"Soil Moisture %":             {Element: "Soil-Moisture", ValueUnit: "%", ModusTestID: "S-MOIST-GRAV.00"},
			"Total P ppm":                 {Element: "TP", ValueUnit: "ppm"},
			"Total Zn ppm":                {Element: "TZn", ValueUnit: "ppm"},
			"Nitrite-N ppm":               {Element: "NO2-N", ValueUnit: "ppm", ModusTestID: "S-NO2-KCL.01"},
			"% Sand":                      {Element: "Sand", ValueUnit: "%"},
			"% Silt":                      {Element: "Silt", ValueUnit: "%"},
			"% Clay":                      {Element: "Clay", ValueUnit: "%"},
			"Texture":                     {Element: "Texture"},
			"Paste % Sat":                 {Element: "Sat-Pct", ValueUnit: "%", ModusTestID: "S-SP%.19"},
			"Paste pH":                    {Element: "pH", ModusTestID: "S-PH-SP.02"},
			"Paste EC mmho/cm":            {Element: "EC", ValueUnit: "mmho/cm", ModusTestID: "S-EC-SP.03"},
			"Paste HCO3 ppm":              {Element: "HCO3", ValueUnit: "ppm"},
			"Paste Cl ppm":                {Element: "Cl", ValueUnit: "ppm"},
			"Paste Ca ppm":                {Element: "Ca", ValueUnit: "ppm"},
			"Paste Mg ppm":                {Element: "Mg", ValueUnit: "ppm"},
			"Paste Na ppm":                {Element: "Na", ValueUnit: "ppm", ModusTestID: "S-NA-SP.05"},
			"Paste S ppm":                 {Element: "S", ValueUnit: "ppm"},
			"Paste SAR":                   {Element: "SAR", ValueUnit: "ppm", ModusTestID: "S-SAR-SP.00"},
			"Paste CO3 ppm":               {Element: "CO3", ValueUnit: "ppm"},
			"Nitrogen Rec":                {Element: "N-Rec", ValueUnit: "lb/ac"},
			"P2O5 Rec":                    {Element: "P2O5-Rec", ValueUnit: "lb/ac"},
			"K2O Rec":                     {Element: "K2O-Rec", ValueUnit: "lb/ac"},
			"Sulfur Rec":                  {Element: "S-Rec", ValueUnit: "lb/ac"},
			"Zinc Rec":                    {Element: "Zn-Rec", ValueUnit: "lb/ac"},
			"Lime Rec":                    {Element: "Lime-Rec", ValueUnit: "lb/ac"},
			"Organic Carbon %":            {Element: "OC", ValueUnit: "%"},
			"Total Carbon %":              {Element: "TC", ValueUnit: "%", ModusTestID: "S-TC-COMB.15"},
			"H2O NO3-N":                   {Element: "NO3-N", ValueUnit: "ppm", ModusTestID: "S-NO3-W1:1.01.01"},
			"H2O NH4-N":                   {Element: "NH4-N", ValueUnit: "ppm", ModusTestID: "S-NH4N-W1:1.01"},
			"Total S":                     {Element: "TS", ValueUnit: "ppm", ModusTestID: "S-S-EPA6010B.00"},
			"PSNT N/A":                    {Element: "PSNT-N", ValueUnit: "lb/ac"},
			"PSNT ppm N":                  {Element: "PSNT-N", ValueUnit: "ppm"},
			"Phosphorus M3 ICAP ppm P":    {Element: "P", ValueUnit: "ppm", ModusTestID: "S-P-M3.04"},
			"Potassium M3 ICAP ppm K":     {Element: "K", ValueUnit: "ppm", ModusTestID: "S-K-M3.05"},
			"Sulfur M3 ICAP ppm S":        {Element: "S", ValueUnit: "ppm", ModusTestID: "S-S-M3.05"},
			"Zinc M3 ICAP ppm Zn":         {Element: "Zn", ValueUnit: "ppm", ModusTestID: "S-ZN-M3.05"},
			"Iron M3 ICAP ppm Fe":         {Element: "Fe", ValueUnit: "ppm", ModusTestID: "S-FE-M3.05"},
			"Manganese M3 ICAP ppm Mn":    {Element: "Mn", ValueUnit: "ppm", ModusTestID: "S-MN-M3.05"},
			"Copper M3 ICAP ppm Cu":       {Element: "Cu", ValueUnit: "ppm", ModusTestID: "S-CU-M3.05"},
			"Calcium M3 ICAP ppm Ca":      {Element: "Ca", ValueUnit: "ppm", ModusTestID: "S-CA-M3.05"},
			"Magnesium M3 ICAP ppm Mg":    {Element: "Mg", ValueUnit: "ppm", ModusTestID: "S-MG-M3.05"},
			"Sodium M3 ICAP ppm Na":       {Element: "Na", ValueUnit: "ppm", ModusTestID: "S-NA-M3.05"},
			"Boron M3 ICAP ppm B":         {Element: "B", ValueUnit: "ppm", ModusTestID: "S-B-M3.05"},
			"Aluminium M3 ICAP ppm Al":    {Element: "Al", ValueUnit: "ppm", ModusTestID: "S-AL-M3.05"},
			"POX-C ppm C":                 {Element: "Active-Carbon", ValueUnit: "ppm", ModusTestID: "S-AC-KMNO4.01"},
			"Bulk Density":                {Element: "Bulk-Density"},
			"Sample Density g/cc":         {Element: "Bulk-Density", ValueUnit: "g/cc"},
			"Molybdenum Hot Water ppm Mo": {Element: "Mo", ValueUnit: "ppm", ModusTestID: "S-MO-HOTH2O.04"},
			"H3A K":                       {Element: "K", ValueUnit: "ppm", ModusTestID: "S-K-H3A1.01.04"},
			"CO2 Soil Respiration":        {Element: "CO2 Respiration", ModusTestID: "S-CO2-RESP.01"},
			"Ace Protein g/Kg":            {Element: "Ace-Protein", ValueUnit: "g/kg"},
			"Rocks grams":                 {Element: "Rocks", ValueUnit: "g"},
			"Roots grams":                 {Element: "Roots", ValueUnit: "g"},
			"%H Sat":                      {Element: "BS-H", ValueUnit: "%", ModusTestID: "S-BS-H.19"},
			"%K Sat":                      {Element: "BS-K", ValueUnit: "%", ModusTestID: "S-BS-K.19"},
			"%Ca Sat":                     {Element: "BS-Ca", ValueUnit: "%", ModusTestID: "S-BS-CA.19"},
			"%Mg Sat":                     {Element: "BS-Mg", ValueUnit: "%", ModusTestID: "S-BS-MG.19"},
			"%Na Sat":                     {Element: "BS-Na", ValueUnit: "%", ModusTestID: "S-BS-NA.19"},
		},
	}
}
