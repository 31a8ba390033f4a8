package fiobot

import (
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/fiobot/fiobot/fiobot/recruit"
)

const recruitUsageMessage = "请输入公招标签或发送公招截图喵~\n" +
	"用法：公招 <标签1> <标签2> ...\n" +
	"示例：公招 高资 近卫 输出\n" +
	"支持截图：发送「公招」并附上公招截图\n" +
	"支持缩写：高资/资深/近卫/狙击/近战/远程/回费 等"

// onRecruit 处理公招指令
func (r *Robot) onRecruit(m *MessageEvent) {
	text := strings.TrimSpace(recruitRegex.ReplaceAllString(m.PlainText(), ""))
	imageURL := firstImageURL(m.Segments)

	// 既没有文字也没有图片
	if text == "" && imageURL == "" {
		r.reply(m, Text(recruitUsageMessage))
		return
	}

	// 数据未就绪时自动下载
	ds := r.recruitData.Current()
	if ds == nil {
		r.reply(m, Text("首次使用，正在下载游戏数据，请稍候喵..."))
		if err := r.ensureGameData(false); err != nil {
			logger.Errorf("下载游戏数据失败: %v", err)
			r.reply(m, Text(fmt.Sprintf("下载游戏数据失败喵：%v", err)))
			return
		}
		ds = r.recruitData.Current()
		if ds == nil {
			r.reply(m, Text("游戏数据加载失败喵，请尝试「公招更新」"))
			return
		}
	}

	maxTags := r.Config.Recruit.MaxSelectTags

	// ===== 图片 OCR 模式 =====
	if imageURL != "" {
		if r.ocr == nil {
			r.reply(m, Text("未配置百度 OCR 喵~\n请在配置文件中填写 ocr 的 api_key 和 secret_key"))
			return
		}

		r.reply(m, Text("正在识别公招截图喵..."))

		ocrLines, err := r.ocr.RecognizeURL(imageURL)
		if err != nil {
			logger.Errorf("OCR 识别失败: %v", err)
			r.reply(m, Text(fmt.Sprintf("OCR 识别失败喵：%v", err)))
			return
		}
		if len(ocrLines) == 0 {
			r.reply(m, Text("截图中没有识别到文字喵~"))
			return
		}

		logger.Infof("OCR 原始结果: %v", ocrLines)

		tags := recruit.ExtractTagsFromOCR(ocrLines, ds.ValidTags)
		if len(tags) == 0 {
			r.reply(m, Text(fmt.Sprintf(
				"未从截图中识别到公招标签喵~\nOCR 识别文字：%v\n请确保截图包含完整的公招标签区域",
				strings.Join(ocrLines, " | "))))
			return
		}
		if len(tags) > maxTags {
			tags = tags[:maxTags]
		}

		r.replyRecruitResult(m, tags, ds)
		return
	}

	// ===== 文字标签模式 =====
	rawTags := recruit.SplitTags(text, ds.ValidTags)
	if len(rawTags) == 0 {
		r.reply(m, Text("没有识别到标签喵~"))
		return
	}
	if len(rawTags) > maxTags {
		r.reply(m, Text(fmt.Sprintf("公招最多只能选 %d 个标签喵~", maxTags)))
		return
	}

	tags := recruit.NormalizeTags(rawTags, ds.ValidTags)
	if len(tags) == 0 {
		r.reply(m, Text(fmt.Sprintf(
			"未识别到有效标签喵~\n你输入的：%v\n请检查标签是否正确",
			strings.Join(rawTags, " "))))
		return
	}

	r.replyRecruitResult(m, tags, ds)
}

// replyRecruitResult 计算组合并回复，优先图片，字体不可用时降级为文字
func (r *Robot) replyRecruitResult(m *MessageEvent, tags []string, ds *recruit.Dataset) {
	results := recruit.FindCombinations(tags, ds)
	if len(results) == 0 {
		r.reply(m, Text(recruit.NoResultMessage))
		return
	}

	if r.Config.Recruit.PreferImage && r.imgRenderer != nil {
		imgBytes, err := r.imgRenderer.Render(tags, results)
		if err == nil {
			r.reply(m, ImageBytes(imgBytes))
			return
		}
		logger.Errorf("渲染公招结果图片失败，降级为文字回复: %v", err)
	}

	r.reply(m, Text(recruit.FormatResults(results)))
}

// onRecruitUpdate 处理公招更新指令，强制重新下载游戏数据。
// 配置了admin_qqs时仅管理员可用，未配置时所有人可用
func (r *Robot) onRecruitUpdate(m *MessageEvent) {
	if len(r.Config.Robot.AdminQQs) != 0 && !r.isAdmin(m.UserID) {
		r.reply(m, Text("只有管理员才能更新游戏数据喵~"))
		return
	}

	r.reply(m, Text("正在更新游戏数据喵..."))

	if err := r.ensureGameData(true); err != nil {
		logger.Errorf("更新游戏数据失败: %v", err)
		r.reply(m, Text(fmt.Sprintf("更新失败喵：%v", err)))
		return
	}

	ds := r.recruitData.Current()
	if ds == nil {
		r.reply(m, Text("数据下载成功但解析失败喵，请检查日志"))
		return
	}

	r.reply(m, Text(fmt.Sprintf(
		"游戏数据更新成功喵！\n可招募干员：%d 个\n标签数：%d 个",
		len(ds.Operators), len(ds.ValidTags))))
}
