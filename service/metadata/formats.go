/*
 * @module service/metadata/formats
 * @description 格式标识规范化表，自由文本格式归一为标准MIME标识，并划分机器可读/开放/链接数据格式类
 * @architecture 服务层 - 只读查找表
 * @documentReference ai_docs/compliance_engine_design.md
 * @stateFlow 自由文本格式 -> 查表规范化 -> 格式类判定
 * @rules 未知格式原样透传，不报错；格式类判定基于规范化后的MIME标识
 * @dependencies strings
 * @refs service/metadata/enhancer.go, service/validators/format.go
 */

package metadata

import "strings"

// 常用MIME标识
const (
	MIMECSV     = "text/csv"
	MIMEJSON    = "application/json"
	MIMEXML     = "application/xml"
	MIMEXLSX    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEXLS     = "application/vnd.ms-excel"
	MIMEPDF     = "application/pdf"
	MIMERDFXML  = "application/rdf+xml"
	MIMETurtle  = "text/turtle"
	MIMEJSONLD  = "application/ld+json"
	MIMEGeoJSON = "application/geo+json"
	MIMEParquet = "application/vnd.apache.parquet"
	MIMEHTML    = "text/html"
	MIMEZIP     = "application/zip"
)

// mimeNormalization 自由文本格式到标准MIME标识的固定查找表
var mimeNormalization = map[string]string{
	"csv":              MIMECSV,
	"text/csv":         MIMECSV,
	"json":             MIMEJSON,
	"application/json": MIMEJSON,
	"xml":              MIMEXML,
	"text/xml":         MIMEXML,
	"application/xml":  MIMEXML,
	"xlsx":             MIMEXLSX,
	"excel":            MIMEXLS,
	"xls":              MIMEXLS,
	"pdf":              MIMEPDF,
	"application/pdf":  MIMEPDF,
	"rdf":              MIMERDFXML,
	"rdf/xml":          MIMERDFXML,
	"ttl":              MIMETurtle,
	"turtle":           MIMETurtle,
	"jsonld":           MIMEJSONLD,
	"json-ld":          MIMEJSONLD,
	"geojson":          MIMEGeoJSON,
	"parquet":          MIMEParquet,
	"html":             MIMEHTML,
	"zip":              MIMEZIP,
}

// machineReadableFormats 机器可读格式类
var machineReadableFormats = map[string]bool{
	MIMECSV:     true,
	MIMEJSON:    true,
	MIMEXML:     true,
	MIMEXLSX:    true,
	MIMEXLS:     true,
	MIMERDFXML:  true,
	MIMETurtle:  true,
	MIMEJSONLD:  true,
	MIMEGeoJSON: true,
	MIMEParquet: true,
}

// openFormats 开放（非专有）格式类
var openFormats = map[string]bool{
	MIMECSV:     true,
	MIMEJSON:    true,
	MIMEXML:     true,
	MIMERDFXML:  true,
	MIMETurtle:  true,
	MIMEJSONLD:  true,
	MIMEGeoJSON: true,
	MIMEParquet: true,
}

// linkedDataFormats 语义/链接数据格式类
var linkedDataFormats = map[string]bool{
	MIMERDFXML: true,
	MIMETurtle: true,
	MIMEJSONLD: true,
}

// NormalizeFormat 自由文本格式规范化为标准MIME标识
// 查不到的值原样透传，属于文档化行为而非错误
func NormalizeFormat(format string) string {
	key := strings.ToLower(strings.TrimSpace(format))
	if key == "" {
		return format
	}
	if mime, ok := mimeNormalization[key]; ok {
		return mime
	}
	return format
}

// IsMachineReadable 判断格式是否机器可读
func IsMachineReadable(format string) bool {
	return machineReadableFormats[NormalizeFormat(format)]
}

// IsOpenFormat 判断格式是否开放
func IsOpenFormat(format string) bool {
	return openFormats[NormalizeFormat(format)]
}

// IsLinkedDataFormat 判断格式是否属于语义/链接数据格式
func IsLinkedDataFormat(format string) bool {
	return linkedDataFormats[NormalizeFormat(format)]
}
