package fiobot

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	baiduTokenURL = "https://aip.baidubce.com/oauth/2.0/token"
	baiduOcrURL   = "https://aip.baidubce.com/rest/2.0/ocr/v1/general_basic"
)

// BaiduOCR 百度云通用文字识别客户端
type BaiduOCR struct {
	apiKey     string
	secretKey  string
	httpClient *http.Client

	tokenMu         sync.Mutex
	accessToken     string
	tokenExpireTime time.Time

	// 同一张截图往往会被反复发送，按图片url缓存识别结果
	cache *lru.ARCCache
}

// NewBaiduOCR 创建百度OCR客户端
func NewBaiduOCR(cfg OcrConfig, httpClient *http.Client) *BaiduOCR {
	cache, _ := lru.NewARC(1024)
	return &BaiduOCR{
		apiKey:     cfg.APIKey,
		secretKey:  cfg.SecretKey,
		httpClient: httpClient,
		cache:      cache,
	}
}

// RecognizeURL 下载图片并识别其中的文字，返回识别到的文字行列表
func (o *BaiduOCR) RecognizeURL(imageURL string) ([]string, error) {
	if cached, ok := o.cache.Get(imageURL); ok {
		return cached.([]string), nil
	}

	imageData, err := o.downloadImage(imageURL)
	if err != nil {
		return nil, errors.Wrap(err, "下载图片失败")
	}

	lines, err := o.Recognize(imageData)
	if err != nil {
		return nil, err
	}

	o.cache.Add(imageURL, lines)
	return lines, nil
}

// Recognize 识别图片二进制数据中的文字
func (o *BaiduOCR) Recognize(imageData []byte) ([]string, error) {
	token, err := o.getAccessToken()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(imageData))

	rsp, err := o.httpClient.Post(
		baiduOcrURL+"?access_token="+url.QueryEscape(token),
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "请求百度OCR失败")
	}
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "读取OCR响应失败")
	}

	parsed := gjson.ParseBytes(body)
	if errCode := parsed.Get("error_code"); errCode.Exists() {
		return nil, errors.Errorf("百度OCR识别失败: [%v] %v", errCode.Int(), parsed.Get("error_msg").String())
	}

	var lines []string
	parsed.Get("words_result").ForEach(func(_, item gjson.Result) bool {
		if words := item.Get("words"); words.Exists() {
			lines = append(lines, words.String())
		}
		return true
	})

	logger.Debugf("百度OCR识别结果: %v", lines)
	return lines, nil
}

// getAccessToken 获取百度OCR access token，token有效期30天，缓存避免重复请求
func (o *BaiduOCR) getAccessToken() (string, error) {
	o.tokenMu.Lock()
	defer o.tokenMu.Unlock()

	if o.accessToken != "" && time.Now().Before(o.tokenExpireTime) {
		return o.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", o.apiKey)
	form.Set("client_secret", o.secretKey)

	rsp, err := o.httpClient.Post(baiduTokenURL+"?"+form.Encode(), "application/x-www-form-urlencoded", nil)
	if err != nil {
		return "", errors.Wrap(err, "请求百度OCR token失败")
	}
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", errors.Wrap(err, "读取token响应失败")
	}

	parsed := gjson.ParseBytes(body)
	token := parsed.Get("access_token").String()
	if token == "" {
		return "", errors.Errorf("获取百度OCR token失败: %v", string(body))
	}

	expiresIn := parsed.Get("expires_in").Int()
	if expiresIn <= 0 {
		expiresIn = 2592000
	}

	o.accessToken = token
	// 提前1小时过期，避免边界问题
	o.tokenExpireTime = time.Now().Add(time.Duration(expiresIn-3600) * time.Second)
	logger.Info("百度OCR access token获取成功")

	return token, nil
}

func (o *BaiduOCR) downloadImage(imageURL string) ([]byte, error) {
	rsp, err := o.httpClient.Get(imageURL)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code %v", rsp.StatusCode)
	}
	return io.ReadAll(rsp.Body)
}
