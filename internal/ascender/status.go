package ascender

// StatusRanking orders employment status codes by priority, lowest first.
// A job's rank key gains (index+1)*100 for a listed status.
var StatusRanking = []string{ //nolint:gochecknoglobals
	"NOPAY",
	"NON",
	"NPAYF",
	"NPAYP",
	"CCFA",
	"PFAS",
	"PFA",
	"PFT",
	"CFA",
	"CFT",
	"PPA",
	"PPT",
	"CPA",
	"CPT",
	"CAS",
	"SEAS",
	"TRAIN",
}

// EmploymentStatuses maps emp_status codes to their description.
var EmploymentStatuses = map[string]string{ //nolint:gochecknoglobals
	"ADV":   "ADVERTISED VACANCY",
	"BD":    "Board",
	"CAS":   "CASUAL EMPLOYEES",
	"CCFA":  "COMMITTEE-BOARD MEMBERS FIXED TERM CONTRACT  AUTO",
	"CD":    "CADET",
	"CEP":   "COMMONWEALTH EMPLOYMENT PROGRAM",
	"CFA":   "FIXED TERM CONTRACT FULL-TIME AUTO",
	"CFAS":  "CONTRACT F-TIME AUTO SENIOR EXECUTIVE SERVICE",
	"CFT":   "FIXED TERM CONTRACT FULL-TIME TSHEET",
	"CJA":   "FIXED TERM CONTRACT JOB SHARE AUTO",
	"CJT":   "FIXED TERM CONTRACT JOBSHARE TSHEET",
	"CO":    "COMMITTEE (DO NOT USE- USE CCFA)",
	"CON":   "EXTERNAL CONTRACTOR",
	"CPA":   "FIXED TERM CONTRACT PART-TIME AUTO",
	"CPAS":  "CONTRACT P-TIME AUTO SENIOR EXECUTIVE SERVICE",
	"CPT":   "FIXED TERM CONTRACT PART-TIME TSHEET",
	"ECAS":  "EXTERNAL FUND CASUAL",
	"ECFA":  "FIXED TERM CONTRACT EXT. FUND F/TIME AUTO",
	"ECFT":  "FIXED TERM CONTRACT EXT. FUND F/TIME TSHEET",
	"ECJA":  "FIXED TERM CONTRACT EXT. FUND JOBSHARE AUTO",
	"ECJT":  "FIXED TERM CONTRACT EXT. FUND JOBSHARE TSHEET",
	"ECPA":  "FIXED TERM CONTRACT EXT. FUND P/TIME AUTO",
	"ECPT":  "FIXED TERM CONTRACT EXT. FUND P/TIME TSHEET",
	"EPFA":  "EXTERNAL FUND PERMANENT FULL-TIME AUTO",
	"EPFT":  "EXTERNAL FUND FULL-TIME TSHEET",
	"EPJA":  "EXTERNAL FUND PERMANENT JOBSHARE AUTO",
	"EPJT":  "EXTERNAL FUND PERMANENT JOBSHARE TSHEEET",
	"EPPA":  "EXTERNAL FUND PERMANENT PART-TIME AUTO",
	"EPPT":  "EXTERNAL FUND PERMANENT PART-TIME TSHEET",
	"EXT":   "EXTERNAL PERSON (NON EMPLOYEE)",
	"GRCA":  "GRADUATE RECRUIT FIXED TERM CONTRACT AUTO",
	"JOB":   "JOBSKILLS",
	"NON":   "NON EMPLOYEE",
	"NOPAY": "NO PAY ALLOWED",
	"NPAYC": "CASUAL NO PAY ALLOWED",
	"NPAYF": "FULLTIME NO PAY ALLOWED",
	"NPAYP": "PARTTIME NO PAY ALLOWED",
	"NPAYT": "CONTRACT NO PAY ALLOWED (SEAS,CONT)",
	"PFA":   "PERMANENT FULL-TIME AUTO",
	"PFAE":  "PERMANENT FULL-TIME AUTO EXECUTIVE COUNCIL APPOINT",
	"PFAS":  "PERMANENT FULL-TIME AUTO SENIOR EXECUTIVE SERVICE",
	"PFT":   "PERMANENT FULL-TIME TSHEET",
	"PJA":   "PERMANENT JOB SHARE AUTO",
	"PJT":   "PERMANENT JOBSHARE TSHEET",
	"PPA":   "PERMANENT PART-TIME AUTO",
	"PPAS":  "PERMANENT PART-TIME AUTO SENIOR EXECUTIVE SERVICE",
	"PPRTA": "PERMANENT P-TIME AUTO (RELINQUISH ROR to FT)",
	"PPT":   "PERMANENT PART-TIME TSHEET",
	"SCFA":  "SECONDMENT FULL-TIME AUTO",
	"SEAP":  "SEASONAL EMPLOYMENT (PERMANENT)",
	"SEAS":  "SEASONAL EMPLOYMENT",
	"SES":   "Senior Executive Service",
	"SFTC":  "SPONSORED FIXED TERM CONTRACT AUTO",
	"SFTT":  "SECONDMENT FULL-TIME TSHEET",
	"SN":    "SUPERNUMERY",
	"SPFA":  "PERMANENT FT SPECIAL CONDITIO AUTO",
	"SPFT":  "PERMANENT FT SPECIAL CONDITIONS  TS",
	"SPTA":  "SECONDMENT PART-TIME AUTO",
	"SPTT":  "SECONDMENT PART-TIME TSHEET",
	"TEMP":  "TEMPORARY EMPLOYMENT",
	"TERM":  "TERMINATED",
	"TRAIN": "TRAINEE",
	"V":     "VOLUNTEER",
	"WWR":   "WEEKEND WEATHER READER",
	"Z":     "Non-Resident",
}
