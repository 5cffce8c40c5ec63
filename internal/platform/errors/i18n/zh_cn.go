package i18n

var zhCNMessages = map[Code]string{
	CodeUnknown:           "出现未知错误，请重试。",
	CodeStorageFailure:    "无法保存到本地，请检查磁盘空间后重试。",
	CodeNotFound:          "请求的内容已不存在。",
	CodeFontDecodeFailure: "字体 {{.Name}} 加载失败，可能是字体文件损坏或格式不兼容。可尝试使用字体修复工具。",
	CodeFontRepairFailure: "字体修复失败：{{.Reason}}",
	CodeDanglingReference: "所选字体已不可用。",
	CodeInvalidArgument:   "{{.Field}} 的取值无效。",
	CodeNotReady:          "字帖正在加载，请稍候。",
}
