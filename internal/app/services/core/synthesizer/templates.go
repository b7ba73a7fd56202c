package synthesizer

import "kpim-service/internal/app/models"

// Three hospitals with distinct baseline risk multipliers: a standard
// general hospital, an acute-heavy medical center, and a lower-acuity
// community hospital.
var hospitalTemplates = []models.HospitalTemplate{
	{Code: "TP_GEN", Name: "Taipei General Hospital", RiskFactor: 1.0},
	{Code: "NAT_MED", Name: "National Medical Center", RiskFactor: 1.2},
	{Code: "CITY_UN", Name: "City United Hospital", RiskFactor: 0.8},
}

// Every hospital gets its own copy of each department, with dedicated
// practitioners, so provider-level aggregation stays meaningful per site.
var departmentTemplates = []models.DepartmentTemplate{
	{
		Code:           "SURG",
		Name:           "General Surgery",
		DoctorSurnames: []string{"Liu", "Chang", "Chen"},
		Procedures: []models.ProcedureTemplate{
			{Code: "80146002", Display: "Laparoscopic appendectomy"},
			{Code: "387713003", Display: "Cholecystectomy"},
		},
	},
	{
		Code:           "CARDIO",
		Name:           "Cardiology",
		DoctorSurnames: []string{"Wu", "Tsai", "Yang"},
		Procedures: []models.ProcedureTemplate{
			{Code: "415070008", Display: "Percutaneous coronary intervention"},
			{Code: "36969009", Display: "Stent placement"},
		},
	},
	{
		Code:           "ORTHO",
		Name:           "Orthopedics",
		DoctorSurnames: []string{"Wang", "Lee", "Chao"},
		Procedures: []models.ProcedureTemplate{
			{Code: "274474001", Display: "Total knee replacement"},
			{Code: "79659005", Display: "Open reduction internal fixation"},
		},
	},
}

var patientFamilyNames = []string{
	"Lee", "Wang", "Chang", "Liu", "Chen", "Yang", "Huang", "Chao", "Chou",
	"Wu", "Hsu", "Sun", "Ma", "Chu", "Hu", "Lin", "Kuo", "Ho", "Kao", "Lo",
}

var patientGivenNamesMale = []string{
	"Chih-Ming", "Chun-Chieh", "Chien-Kuo", "Chia-Hao", "Kuan-Yu",
	"Hsin-Hung", "Chih-Hao", "Chia-Wei", "Wen-Hsiung", "Wei-Che",
}

var patientGivenNamesFemale = []string{
	"Shu-Fen", "Ya-Ting", "Yi-Chun", "Mei-Ling", "Ya-Wen",
	"Hsin-Yi", "Mei-Hui", "Li-Hua", "Hsiu-Ying", "Pei-Chun",
}
