package dep_checker

// knownImportAliases maps well-known import names to the distribution name
// published on the package index, for the cases where the two differ.
var knownImportAliases = map[string]string{
	"cv2":               "opencv-python",
	"PIL":               "Pillow",
	"yaml":              "PyYAML",
	"dateutil":          "python-dateutil",
	"sklearn":           "scikit-learn",
	"skimage":           "scikit-image",
	"bs4":               "beautifulsoup4",
	"requests_oauthlib": "requests-oauthlib",
	"jwt":               "PyJWT",
	"serial":            "pyserial",
	"magic":             "python-magic",
	"MySQLdb":           "mysqlclient",
	"psycopg2":          "psycopg2-binary",
	"OpenSSL":           "pyOpenSSL",
	"Crypto":            "pycryptodome",
	"nacl":              "PyNaCl",
	"dotenv":            "python-dotenv",
	"gi":                "PyGObject",
	"win32api":          "pywin32",
	"attr":              "attrs",
	"fitz":              "PyMuPDF",
	"github":            "PyGithub",
	"googleapiclient":   "google-api-python-client",
	"grpc":              "grpcio",
	"kafka":             "kafka-python",
	"redis":             "redis",
	"setuptools":        "setuptools",
	"pkg_resources":     "setuptools",
}
